// Package net provides benchmarks for network training and inference.
package net

import (
	"math/rand"
	"testing"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/activations"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
)

// fillRandom fills a slice with random values.
func fillRandom(slice []float64) {
	for i := range slice {
		slice[i] = rand.Float64()
	}
}

func benchNetwork(b *testing.B) *Network {
	n, err := New(Config{
		InputWidth:  784,
		LayerWidths: []int{256, 128, 10},
		Activations: []activations.ID{activations.ReLUID, activations.ReLUID, activations.SigmoidID},
		Loss:        loss.MSEID,
		Seed:        1,
	})
	if err != nil {
		b.Fatal(err)
	}
	return n
}

// BenchmarkNetworkForward benchmarks a forward pass through a small network.
func BenchmarkNetworkForward(b *testing.B) {
	network := benchNetwork(b)
	input := make([]float64, 784)
	fillRandom(input)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		network.Forward(input)
	}
}

// BenchmarkNetworkBackward benchmarks a backward pass after one forward pass.
func BenchmarkNetworkBackward(b *testing.B) {
	network := benchNetwork(b)
	input := make([]float64, 784)
	target := make([]float64, 10)
	fillRandom(input)
	target[3] = 1
	network.Forward(input)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		network.Backward(target)
	}
}

// BenchmarkNetworkTrainSample benchmarks one online update.
func BenchmarkNetworkTrainSample(b *testing.B) {
	network := benchNetwork(b)
	input := make([]float64, 784)
	target := make([]float64, 10)
	fillRandom(input)
	target[3] = 1

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		network.TrainSample(input, target, 0.01)
	}
}

// BenchmarkTrainOneEpoch benchmarks an epoch over 64 samples.
func BenchmarkTrainOneEpoch(b *testing.B) {
	network := benchNetwork(b)
	samples := make([][]float64, 64)
	labels := make([][]float64, 64)
	for i := range samples {
		samples[i] = make([]float64, 784)
		fillRandom(samples[i])
		labels[i] = make([]float64, 10)
		labels[i][i%10] = 1
	}
	trainer := NewTrainer(network)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		trainer.TrainOneEpoch(samples, labels, 0.01)
	}
}

// BenchmarkNetworkParams benchmarks flattening all parameters.
func BenchmarkNetworkParams(b *testing.B) {
	network := benchNetwork(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		network.Params()
	}
}
