// Package opt provides the parameter update rule and learning-rate schedules.
package opt

import "gonum.org/v1/gonum/floats"

// Optimizer updates parameters in place from their gradients.
type Optimizer interface {
	// StepInPlace updates params in-place: params = params - lr * gradients
	StepInPlace(params, gradients []float64)
}

// SGD (Stochastic Gradient Descent) optimizer.
type SGD struct {
	LearningRate float64
}

// StepInPlace updates params in-place: params = params - lr * gradients.
// It panics if the slices differ in length.
func (s SGD) StepInPlace(params, gradients []float64) {
	floats.AddScaled(params, -s.LearningRate, gradients)
}
