// Package layer provides the fully connected layer used by the network.
package layer

import (
	"math/rand"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/activations"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/nnerr"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Initial weight range: weights are drawn uniformly from [InitMin, InitMax).
const (
	InitMin = -0.5
	InitMax = 0.5
)

// Dense is a fully connected layer: output = act(W·x + b).
//
// Besides its parameters it owns scratch buffers for the last forward and
// backward call. Each call overwrites them; nothing accumulates across calls.
type Dense struct {
	inSize  int
	outSize int
	actID   activations.ID
	act     activations.Activation

	// Shape: [outSize × inSize]; element (j, k) weights input k into neuron j.
	weights *mat.Dense
	biases  *mat.VecDense

	input  *mat.VecDense // copy of the last forward input
	preAct *mat.VecDense // pre-activation sums of the last forward call
	output *mat.VecDense
	errors *mat.VecDense
	gradW  *mat.Dense
	gradB  *mat.VecDense
}

// NewDense creates a dense layer with zero weights and biases.
// Widths must be positive and id must name a catalog activation.
func NewDense(in, out int, id activations.ID) (*Dense, error) {
	if in <= 0 {
		return nil, nnerr.Configuration("input_size", "must be positive, got %d", in)
	}
	if out <= 0 {
		return nil, nnerr.Configuration("output_size", "must be positive, got %d", out)
	}
	act, err := activations.New(id)
	if err != nil {
		return nil, err
	}

	return &Dense{
		inSize:  in,
		outSize: out,
		actID:   id,
		act:     act,
		weights: mat.NewDense(out, in, nil),
		biases:  mat.NewVecDense(out, nil),
		input:   mat.NewVecDense(in, nil),
		preAct:  mat.NewVecDense(out, nil),
		output:  mat.NewVecDense(out, nil),
		errors:  mat.NewVecDense(out, nil),
		gradW:   mat.NewDense(out, in, nil),
		gradB:   mat.NewVecDense(out, nil),
	}, nil
}

// Randomize draws every weight uniformly from [InitMin, InitMax) using rng
// and resets the biases to zero.
func (d *Dense) Randomize(rng *rand.Rand) {
	dist := distuv.Uniform{Min: InitMin, Max: InitMax}
	w := d.weights.RawMatrix().Data
	for i := range w {
		w[i] = dist.Quantile(rng.Float64())
	}
	d.biases.Zero()
}

// Forward computes act(W·x + b).
//
// The returned slice is the layer's output buffer: it is overwritten by the
// next call and must not be modified. A wrong input length is a
// DimensionError and leaves the layer untouched.
func (d *Dense) Forward(x []float64) ([]float64, error) {
	if len(x) != d.inSize {
		return nil, nnerr.Dimension("dense forward", d.inSize, len(x))
	}

	copy(d.input.RawVector().Data, x)
	d.preAct.MulVec(d.weights, d.input)
	d.preAct.AddVec(d.preAct, d.biases)

	sums := d.preAct.RawVector().Data
	out := d.output.RawVector().Data
	for j, s := range sums {
		out[j] = d.act.Activate(s)
	}
	return out, nil
}

// SetOutputError sets the error of an output layer:
// errors[j] = delta[j] * act'(sum[j]), where delta is the loss gradient with
// respect to this layer's outputs and sum the pre-activation of the last
// forward call.
func (d *Dense) SetOutputError(delta []float64) error {
	if len(delta) != d.outSize {
		return nnerr.Dimension("dense output error", d.outSize, len(delta))
	}

	errs := d.errors.RawVector().Data
	sums := d.preAct.RawVector().Data
	for j := range errs {
		errs[j] = delta[j] * d.act.Derivative(sums[j])
	}
	return nil
}

// PropagateTo computes the error of prev, the layer feeding this one:
// prev.errors = (Wᵀ · errors) ⊙ prev.act'(prev.sum).
func (d *Dense) PropagateTo(prev *Dense) error {
	if prev.outSize != d.inSize {
		return nnerr.Dimension("dense backpropagate", d.inSize, prev.outSize)
	}

	prev.errors.MulVec(d.weights.T(), d.errors)
	errs := prev.errors.RawVector().Data
	sums := prev.preAct.RawVector().Data
	for j := range errs {
		errs[j] *= prev.act.Derivative(sums[j])
	}
	return nil
}

// ComputeGradients derives the parameter gradients from the current error:
// gradW = errors ⊗ input and gradB = errors, where input is the activation
// that fed the last forward call.
func (d *Dense) ComputeGradients() {
	d.gradW.Outer(1, d.errors, d.input)
	d.gradB.CopyVec(d.errors)
}

// Step applies the last computed gradients through o.
func (d *Dense) Step(o opt.Optimizer) {
	o.StepInPlace(d.weights.RawMatrix().Data, d.gradW.RawMatrix().Data)
	o.StepInPlace(d.biases.RawVector().Data, d.gradB.RawVector().Data)
}

// NumParams returns the number of weights plus biases.
func (d *Dense) NumParams() int {
	return d.outSize*d.inSize + d.outSize
}

// Params returns all dense layer parameters flattened: weights row-major,
// then biases.
func (d *Dense) Params() []float64 {
	params := make([]float64, 0, d.NumParams())
	params = append(params, d.weights.RawMatrix().Data...)
	params = append(params, d.biases.RawVector().Data...)
	return params
}

// SetParams updates weights and biases from a flattened slice (in-place).
func (d *Dense) SetParams(params []float64) error {
	if len(params) != d.NumParams() {
		return nnerr.Dimension("dense set params", d.NumParams(), len(params))
	}
	n := copy(d.weights.RawMatrix().Data, params)
	copy(d.biases.RawVector().Data, params[n:])
	return nil
}

// Gradients returns the last computed gradients flattened like Params.
func (d *Dense) Gradients() []float64 {
	gradients := make([]float64, 0, d.NumParams())
	gradients = append(gradients, d.gradW.RawMatrix().Data...)
	gradients = append(gradients, d.gradB.RawVector().Data...)
	return gradients
}

// Weights returns a read-only view of the weight matrix.
func (d *Dense) Weights() mat.Matrix {
	return d.weights
}

// Weight gets a single weight at (row, col).
func (d *Dense) Weight(row, col int) float64 {
	return d.weights.At(row, col)
}

// SetWeight sets a single weight at (row, col).
func (d *Dense) SetWeight(row, col int, val float64) {
	d.weights.Set(row, col, val)
}

// Bias gets a single bias.
func (d *Dense) Bias(idx int) float64 {
	return d.biases.AtVec(idx)
}

// SetBias sets a single bias.
func (d *Dense) SetBias(idx int, val float64) {
	d.biases.SetVec(idx, val)
}

// Output returns the activations of the last forward call.
func (d *Dense) Output() []float64 {
	return d.output.RawVector().Data
}

// PreActivation returns the weighted sums of the last forward call.
func (d *Dense) PreActivation() []float64 {
	return d.preAct.RawVector().Data
}

// Errors returns the error signal of the last backward call.
func (d *Dense) Errors() []float64 {
	return d.errors.RawVector().Data
}

// InSize returns the input size of the layer.
func (d *Dense) InSize() int {
	return d.inSize
}

// OutSize returns the output size of the layer.
func (d *Dense) OutSize() int {
	return d.outSize
}

// ActivationID returns the catalog id of the layer's activation.
func (d *Dense) ActivationID() activations.ID {
	return d.actID
}
