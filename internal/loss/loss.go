// Package loss provides the closed catalog of loss functions.
package loss

import (
	"strconv"
	"strings"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/approx"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/nnerr"
	"github.com/pkg/errors"
)

// Prediction clamps applied by BinaryCrossEntropy.
const (
	ClampMin = 1e-6
	ClampMax = 1.0
)

// Loss is a loss function together with the error signal it feeds into
// backpropagation.
type Loss interface {
	// Forward computes the loss between predicted and true values.
	Forward(yPred, yTrue []float64) (float64, error)

	// BackwardInPlace stores in grad the derivative of the per-sample
	// training objective with respect to each prediction. The output layer
	// multiplies it by its activation derivative to obtain its error.
	BackwardInPlace(yPred, yTrue, grad []float64) error
}

// ID selects a loss function.
type ID int

// Loss ids. The numeric values are part of the external configuration
// format and must not change.
const (
	MSEID ID = iota
	BinaryCrossEntropyID
)

var names = [...]string{
	MSEID:                "mse",
	BinaryCrossEntropyID: "binary_cross_entropy",
}

// Valid reports whether id names a catalog entry.
func (id ID) Valid() bool {
	return id == MSEID || id == BinaryCrossEntropyID
}

func (id ID) String() string {
	if !id.Valid() {
		return "loss(" + strconv.Itoa(int(id)) + ")"
	}
	return names[id]
}

// ParseID accepts a numeric id ("0", "1"), a name, or "bce".
func ParseID(s string) (ID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		id := ID(n)
		if !id.Valid() {
			return 0, nnerr.Configuration("loss", "unknown loss id %d", n)
		}
		return id, nil
	}
	switch s {
	case "mse", "mean_squared_error":
		return MSEID, nil
	case "bce", "binary_cross_entropy":
		return BinaryCrossEntropyID, nil
	}
	return 0, nnerr.Configuration("loss", "unknown loss %q", s)
}

// MarshalText encodes id by name.
func (id ID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, nnerr.Configuration("loss", "unknown loss id %d", int(id))
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

// New returns the loss selected by id. Unknown ids are a ConfigurationError.
func New(id ID) (Loss, error) {
	switch id {
	case MSEID:
		return MSE{}, nil
	case BinaryCrossEntropyID:
		return BinaryCrossEntropy{}, nil
	}
	return nil, nnerr.Configuration("loss", "unknown loss id %d", int(id))
}

// checkPair validates a predicted/target pair for a reduction.
func checkPair(op string, yPred, yTrue []float64) error {
	if len(yPred) != len(yTrue) {
		return nnerr.Dimension(op, len(yPred), len(yTrue))
	}
	if len(yPred) == 0 {
		return nnerr.Numeric(op, "reduction over zero elements")
	}
	return nil
}

func checkGrad(op string, yPred, yTrue, grad []float64) error {
	if err := checkPair(op, yPred, yTrue); err != nil {
		return err
	}
	if len(grad) != len(yPred) {
		return nnerr.Dimension(op, len(yPred), len(grad))
	}
	return nil
}

// MSE (Mean Squared Error) loss.
type MSE struct{}

// Forward computes mean squared error: (1/n) * sum((y_pred - y_true)^2)
func (m MSE) Forward(yPred, yTrue []float64) (float64, error) {
	if err := checkPair("mse", yPred, yTrue); err != nil {
		return 0, err
	}

	var sum float64
	for i := range yPred {
		diff := yPred[i] - yTrue[i]
		sum += diff * diff
	}
	return sum / float64(len(yPred)), nil
}

// BackwardInPlace computes grad = y_pred - y_true, the gradient of the
// per-sample objective ½·sum((y_pred - y_true)^2).
func (m MSE) BackwardInPlace(yPred, yTrue, grad []float64) error {
	if err := checkGrad("mse backward", yPred, yTrue, grad); err != nil {
		return err
	}

	for i := range yPred {
		grad[i] = yPred[i] - yTrue[i]
	}
	return nil
}

// BinaryCrossEntropy loss for targets in [0, 1].
type BinaryCrossEntropy struct{}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Forward computes -(1/n) * sum(t*ln(p) + (1-t)*ln(1-p)) with p clamped to
// [ClampMin, ClampMax]. Terms with a zero coefficient are skipped; a
// prediction saturated at 1 with a target below 1 is a NumericError.
func (b BinaryCrossEntropy) Forward(yPred, yTrue []float64) (float64, error) {
	if err := checkPair("binary cross entropy", yPred, yTrue); err != nil {
		return 0, err
	}

	var sum float64
	for i, p := range yPred {
		p = clamp(p, ClampMin, ClampMax)
		t := yTrue[i]
		if t != 0 {
			lp, err := approx.Log(p)
			if err != nil {
				return 0, errors.Wrapf(err, "binary cross entropy: prediction %d", i)
			}
			sum -= t * lp
		}
		if t != 1 {
			lq, err := approx.Log(1 - p)
			if err != nil {
				return 0, errors.Wrapf(err, "binary cross entropy: prediction %d", i)
			}
			sum -= (1 - t) * lq
		}
	}
	return sum / float64(len(yPred)), nil
}

// BackwardInPlace computes grad = (p - t) / (p(1-p)), the gradient of the
// summed per-sample cross entropy, with p clamped to [ClampMin, 1-ClampMin].
func (b BinaryCrossEntropy) BackwardInPlace(yPred, yTrue, grad []float64) error {
	if err := checkGrad("binary cross entropy backward", yPred, yTrue, grad); err != nil {
		return err
	}

	for i, p := range yPred {
		p = clamp(p, ClampMin, 1-ClampMin)
		grad[i] = (p - yTrue[i]) / (p * (1 - p))
	}
	return nil
}
