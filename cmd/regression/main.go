package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/FlavioCFOliveira/GoPerceptron/perceptron"
)

// Linear regression with a single linear neuron: learns y = 2x from three
// points and prints the fitted weight and bias.
func main() {
	epochs := flag.Int("epochs", 1000, "number of epochs")
	lr := flag.Float64("lr", 0.01, "learning rate")
	seed := flag.Int64("seed", 42, "weight initialization seed")
	interval := flag.Int("log-interval", 200, "log the loss every n epochs")
	flag.Parse()

	log.SetFlags(0)

	fmt.Println("=== Linear regression: y = 2x ===")

	network, err := perceptron.New(perceptron.Config{
		InputWidth:  1,
		LayerWidths: []int{1},
		Activations: []perceptron.ActivationID{perceptron.Linear},
		Loss:        perceptron.MSE,
		Seed:        *seed,
	})
	if err != nil {
		log.Fatal("Error configuring network:", err)
	}

	trainX := [][]float64{{1}, {2}, {3}}
	trainY := [][]float64{{2}, {4}, {6}}

	trainer := perceptron.NewTrainer(network, perceptron.Logger(*interval))
	loss, err := trainer.TrainEpochs(trainX, trainY, *epochs, *lr)
	if err != nil {
		log.Fatal("Error training:", err)
	}

	dense := network.Layers()[0]
	fmt.Printf("  Final loss: %.6f\n", loss)
	fmt.Printf("  Learned: y = %.4f·x + %.4f\n", dense.Weight(0, 0), dense.Bias(0))

	fmt.Println("  Test predictions:")
	for _, x := range []float64{0, 1.5, 4, 10} {
		out, _, err := perceptron.Predict(network, []float64{x})
		if err != nil {
			log.Fatal("Error predicting:", err)
		}
		fmt.Printf("    x=%.2f: predicted=%.4f, expected=%.4f\n", x, out[0], 2*x)
	}
}
