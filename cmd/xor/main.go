package main

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/FlavioCFOliveira/GoPerceptron/perceptron"
	"github.com/pkg/errors"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	fmt.Println("=== XOR Training Example ===")

	// XOR cannot be solved by a single-layer perceptron
	// but can be solved with one hidden layer.
	in := 2
	hidden := 4
	out := 1

	fmt.Printf("Network architecture: %d-%d-%d\n", in, hidden, out)
	fmt.Println("Activation functions: ReLU (hidden), Linear (output)")
	fmt.Println("Loss function: MSE")
	fmt.Println("Optimizer: online SGD with learning rate 0.05")

	network, err := perceptron.New(perceptron.Config{
		InputWidth:  in,
		LayerWidths: []int{hidden, out},
		Activations: []perceptron.ActivationID{perceptron.ReLU, perceptron.Linear},
		Loss:        perceptron.MSE,
		Seed:        42,
	})
	if err != nil {
		return errors.Wrap(err, "configuring network")
	}

	trainX := [][]float64{
		{0, 0},
		{0, 1},
		{1, 0},
		{1, 1},
	}
	trainY := [][]float64{
		{0},
		{1},
		{1},
		{0},
	}

	trainer := perceptron.NewTrainer(network, perceptron.Logger(500))
	if _, err := trainer.TrainEpochs(trainX, trainY, 5000, 0.05); err != nil {
		return errors.Wrap(err, "training")
	}

	fmt.Println("\nTesting trained network:")
	for i := range trainX {
		pred, _, err := perceptron.Predict(network, trainX[i])
		if err != nil {
			return err
		}
		fmt.Printf("Input: %v, Predicted: %.4f, Target: %v\n",
			trainX[i], pred[0], trainY[i][0])
	}

	file, err := os.CreateTemp("", "xor_network-*.gob")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	filename := file.Name()
	file.Close()
	defer os.Remove(filename)

	fmt.Println("\nSaving network to", filename)
	if err := network.Save(filename); err != nil {
		return errors.Wrap(err, "saving network")
	}

	loaded, err := perceptron.Load(filename)
	if err != nil {
		return errors.Wrap(err, "loading network")
	}

	fmt.Println("\nVerifying loaded network:")
	for i := range trainX {
		originalPred, _, err := perceptron.Predict(network, trainX[i])
		if err != nil {
			return err
		}
		loadedPred, _, err := perceptron.Predict(loaded, trainX[i])
		if err != nil {
			return errors.Wrap(err, "predicting with loaded network")
		}
		if math.Float64bits(originalPred[0]) != math.Float64bits(loadedPred[0]) {
			return errors.Errorf("input %v: original %v, loaded %v", trainX[i], originalPred[0], loadedPred[0])
		}
		fmt.Printf("Input: %v, Original: %.4f, Loaded: %.4f [OK]\n",
			trainX[i], originalPred[0], loadedPred[0])
	}

	fmt.Println("\nSUCCESS: All predictions match between original and loaded network!")
	return nil
}
