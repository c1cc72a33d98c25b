package opt

import "math"

// Schedule maps a base learning rate and a zero-based epoch index to the
// learning rate used during that epoch.
type Schedule interface {
	Rate(base float64, epoch int) float64
}

// Constant keeps the base learning rate for every epoch.
type Constant struct{}

func (Constant) Rate(base float64, epoch int) float64 {
	return base
}

// StepDecay multiplies the learning rate by Gamma every StepSize epochs.
type StepDecay struct {
	StepSize int
	Gamma    float64
}

func (s StepDecay) Rate(base float64, epoch int) float64 {
	if s.StepSize <= 0 {
		return base
	}
	return base * math.Pow(s.Gamma, float64(epoch/s.StepSize))
}

// ExponentialDecay multiplies the learning rate by Gamma every epoch.
type ExponentialDecay struct {
	Gamma float64
}

func (s ExponentialDecay) Rate(base float64, epoch int) float64 {
	return base * math.Pow(s.Gamma, float64(epoch))
}
