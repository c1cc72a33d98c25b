package main

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/FlavioCFOliveira/GoPerceptron/perceptron"
	"gonum.org/v1/gonum/floats"
)

// Iris-like dataset: 3 classes (Setosa, Versicolor, Virginica)
// Each sample has 4 features (sepal length, sepal width, petal length, petal width)
func main() {
	fmt.Println("Training Iris classifier (4-8-6-3 network)...")

	network, err := perceptron.New(perceptron.Config{
		InputWidth:  4,
		LayerWidths: []int{8, 6, 3},
		Activations: []perceptron.ActivationID{perceptron.ReLU, perceptron.ReLU, perceptron.Linear},
		Loss:        perceptron.MSE,
		Seed:        42,
	})
	if err != nil {
		log.Fatal("Error configuring network:", err)
	}
	network.Summary(log.Writer())

	ds := generateIrisData(rand.New(rand.NewSource(42)))
	train, test := ds.Split(0.8)

	// Held-out rows are scaled with the training bounds.
	bounds, err := perceptron.FitMinMax(train.Samples)
	if err != nil {
		log.Fatal("Error normalizing:", err)
	}
	if err := bounds.Apply(train.Samples); err != nil {
		log.Fatal("Error normalizing:", err)
	}
	if err := bounds.Apply(test.Samples); err != nil {
		log.Fatal("Error normalizing:", err)
	}

	es := perceptron.EarlyStopping(50, 1e-5)
	trainer := perceptron.NewTrainer(network, perceptron.Logger(200), es)
	trainer.Schedule = perceptron.StepDecay(500, 0.5)

	if _, err := trainer.TrainEpochs(train.Samples, train.Labels, 2000, 0.02); err != nil {
		log.Fatal("Error training:", err)
	}
	if es.Stopped {
		fmt.Printf("Early stopping after %d epochs, best loss %.6f\n", trainer.Epoch(), es.BestLoss())
	}

	m, err := network.Evaluate(test.Samples, test.Labels)
	if err != nil {
		log.Fatal("Error evaluating:", err)
	}
	fmt.Printf("\nHeld-out loss: %.4f, accuracy: %.1f%%\n", m.Loss, m.Accuracy*100)

	fmt.Println("\nSample predictions:")
	for i := 0; i < 10 && i < test.Len(); i++ {
		_, predClass, err := perceptron.Predict(network, test.Samples[i])
		if err != nil {
			log.Fatal(err)
		}
		trueClass := floats.MaxIdx(test.Labels[i])
		fmt.Printf("Sample %d: Predicted=%d, Actual=%d\n", i, predClass, trueClass)
	}
}

// generateIrisData draws noisy samples around the mean of each class,
// interleaved so that a split keeps every class on both sides.
func generateIrisData(rng *rand.Rand) *perceptron.Dataset {
	means := [][]float64{
		{5.0, 3.4, 1.5, 0.2}, // Setosa
		{5.9, 2.8, 4.3, 1.3}, // Versicolor
		{6.6, 3.0, 5.6, 2.0}, // Virginica
	}
	noise := []float64{0.2, 0.25, 0.25}

	ds := &perceptron.Dataset{}
	for i := 0; i < 90; i++ {
		class := i % 3
		ds.Samples = append(ds.Samples, addNoise(rng, means[class], noise[class]))
		ds.Labels = append(ds.Labels, []float64{float64(class)})
	}
	if err := ds.OneHot(3); err != nil {
		log.Fatal(err)
	}
	return ds
}

func addNoise(rng *rand.Rand, sample []float64, noise float64) []float64 {
	result := make([]float64, len(sample))
	for i, v := range sample {
		result[i] = v + (rng.Float64()*2-1)*noise
	}
	return result
}
