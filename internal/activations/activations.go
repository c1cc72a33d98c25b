// Package activations provides the closed catalog of activation functions.
//
// Every function is selected by an ID and evaluated on the pre-activation
// sum of a neuron; derivatives take the same pre-activation argument.
package activations

import (
	"strconv"
	"strings"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/approx"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/nnerr"
)

// DefaultLeakySlope is the slope of LeakyReLU for non-positive inputs.
const DefaultLeakySlope = 0.01

// Activation is an activation function with derivative.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x)
	Derivative(x float64) float64
}

// ID selects an activation function.
type ID int

// Activation ids. The numeric values are part of the external configuration
// format and must not change.
const (
	SigmoidID ID = iota
	ReLUID
	LeakyReLUID
	HeavisideID
	LinearID
)

var names = [...]string{
	SigmoidID:   "sigmoid",
	ReLUID:      "relu",
	LeakyReLUID: "leaky_relu",
	HeavisideID: "heaviside",
	LinearID:    "linear",
}

// Valid reports whether id names a catalog entry.
func (id ID) Valid() bool {
	return id >= SigmoidID && id <= LinearID
}

func (id ID) String() string {
	if !id.Valid() {
		return "activation(" + strconv.Itoa(int(id)) + ")"
	}
	return names[id]
}

// ParseID accepts a numeric id ("0".."4") or a name such as "relu".
func ParseID(s string) (ID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		id := ID(n)
		if !id.Valid() {
			return 0, nnerr.Configuration("activation", "unknown activation id %d", n)
		}
		return id, nil
	}
	for i, name := range names {
		if name == s {
			return ID(i), nil
		}
	}
	return 0, nnerr.Configuration("activation", "unknown activation %q", s)
}

// MarshalText encodes id by name.
func (id ID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, nnerr.Configuration("activation", "unknown activation id %d", int(id))
	}
	return []byte(names[id]), nil
}

// UnmarshalText decodes a name or a numeric id.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// New returns the activation selected by id. Unknown ids are a
// ConfigurationError.
func New(id ID) (Activation, error) {
	switch id {
	case SigmoidID:
		return Sigmoid{}, nil
	case ReLUID:
		return ReLU{}, nil
	case LeakyReLUID:
		return NewLeakyReLU(DefaultLeakySlope), nil
	case HeavisideID:
		return Heaviside{}, nil
	case LinearID:
		return Linear{}, nil
	}
	return nil, nnerr.Configuration("activation", "unknown activation id %d", int(id))
}

// Sigmoid activation function.
//
// The exponential is approx.Exp, a 4th-order polynomial. The result tracks
// the logistic function closely for x in [-1, 1] only: it peaks near 0.79
// and falls back towards 0 for large |x|. This is an accepted approximation
// boundary of the catalog.
type Sigmoid struct{}

func sigmoid(x float64) float64 {
	return 1 / (1 + approx.Exp(-x))
}

// Activate computes 1 / (1 + exp(-x))
func (s Sigmoid) Activate(x float64) float64 {
	return sigmoid(x)
}

// Derivative computes sigmoid(x) * (1 - sigmoid(x))
func (s Sigmoid) Derivative(x float64) float64 {
	sigma := sigmoid(x)
	return sigma * (1 - sigma)
}

// ReLU activation function.
type ReLU struct{}

// Activate computes max(0, x)
func (r ReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Derivative returns 1 if x > 0, else 0. The derivative at 0 is 0.
func (r ReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// LeakyReLU activation function to prevent dying neurons.
type LeakyReLU struct {
	Alpha float64 // Slope for x <= 0
}

// NewLeakyReLU creates a LeakyReLU with the given alpha value.
func NewLeakyReLU(alpha float64) *LeakyReLU {
	return &LeakyReLU{Alpha: alpha}
}

// Activate computes x if x > 0, else alpha*x
func (l *LeakyReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return l.Alpha * x
}

// Derivative returns 1 if x > 0, else alpha
func (l *LeakyReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return l.Alpha
}

// Heaviside step function.
type Heaviside struct{}

// Activate returns 1 if x > 0, else 0
func (h Heaviside) Activate(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Derivative is 0 everywhere; the impulse at 0 is ignored, so no error
// flows back through a Heaviside layer.
func (h Heaviside) Derivative(x float64) float64 {
	return 0
}

// Linear (identity) activation.
type Linear struct{}

// Activate returns x
func (l Linear) Activate(x float64) float64 {
	return x
}

// Derivative returns 1
func (l Linear) Derivative(x float64) float64 {
	return 1
}
