// Package layer provides unit tests for the dense layer.
package layer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/activations"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/nnerr"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFixedDense builds a 2 -> 3 layer with hand-picked parameters.
func newFixedDense(t *testing.T, id activations.ID) *Dense {
	t.Helper()
	d, err := NewDense(2, 3, id)
	require.NoError(t, err)
	require.NoError(t, d.SetParams([]float64{
		0.1, 0.2, // neuron 0
		-0.3, 0.4, // neuron 1
		0.5, -0.6, // neuron 2
		0.01, 0.02, -0.03, // biases
	}))
	return d
}

// TestDenseForward checks sum_j = b_j + Σ_k w[j][k]·x[k] followed by the activation.
func TestDenseForward(t *testing.T) {
	d := newFixedDense(t, activations.LinearID)

	out, err := d.Forward([]float64{1, 2})
	require.NoError(t, err)

	want := []float64{
		0.01 + 0.1*1 + 0.2*2,
		0.02 - 0.3*1 + 0.4*2,
		-0.03 + 0.5*1 - 0.6*2,
	}
	assert.InDeltaSlice(t, want, out, 1e-12)
	assert.InDeltaSlice(t, want, d.PreActivation(), 1e-12)
}

func TestDenseForwardAppliesActivation(t *testing.T) {
	d := newFixedDense(t, activations.ReLUID)

	out, err := d.Forward([]float64{1, 2})
	require.NoError(t, err)

	assert.InDelta(t, 0.51, out[0], 1e-12)
	assert.InDelta(t, 0.52, out[1], 1e-12)
	assert.Equal(t, 0.0, out[2])
	assert.InDelta(t, -0.73, d.PreActivation()[2], 1e-12, "pre-activation sum is retained")
}

// TestDenseForwardDoesNotAccumulate checks the output buffer is overwritten.
func TestDenseForwardDoesNotAccumulate(t *testing.T) {
	d := newFixedDense(t, activations.SigmoidID)

	first, err := d.Forward([]float64{0.3, -0.7})
	require.NoError(t, err)
	firstCopy := append([]float64(nil), first...)

	_, err = d.Forward([]float64{5, 5})
	require.NoError(t, err)
	again, err := d.Forward([]float64{0.3, -0.7})
	require.NoError(t, err)

	assert.Equal(t, firstCopy, again)
}

func TestDenseForwardDimensionError(t *testing.T) {
	d := newFixedDense(t, activations.LinearID)
	_, err := d.Forward([]float64{1, 2})
	require.NoError(t, err)
	before := append([]float64(nil), d.Output()...)

	for _, x := range [][]float64{nil, {1}, {1, 2, 3}} {
		out, err := d.Forward(x)
		require.Error(t, err)
		assert.Nil(t, out)
		assert.True(t, nnerr.IsDimension(err))
	}
	assert.Equal(t, before, d.Output(), "failed calls must not touch the buffers")
}

func TestNewDenseValidation(t *testing.T) {
	_, err := NewDense(0, 3, activations.LinearID)
	assert.True(t, nnerr.IsConfiguration(err))

	_, err = NewDense(3, -1, activations.LinearID)
	assert.True(t, nnerr.IsConfiguration(err))

	_, err = NewDense(3, 3, activations.ID(9))
	assert.True(t, nnerr.IsConfiguration(err))
}

func TestRandomize(t *testing.T) {
	d, err := NewDense(20, 30, activations.SigmoidID)
	require.NoError(t, err)
	d.SetBias(0, 3)

	d.Randomize(rand.New(rand.NewSource(1)))

	params := d.Params()
	nWeights := 20 * 30
	for _, w := range params[:nWeights] {
		require.GreaterOrEqual(t, w, InitMin)
		require.Less(t, w, InitMax)
	}
	for _, b := range params[nWeights:] {
		require.Equal(t, 0.0, b)
	}

	other, err := NewDense(20, 30, activations.SigmoidID)
	require.NoError(t, err)
	other.Randomize(rand.New(rand.NewSource(1)))
	assert.Equal(t, params, other.Params(), "same seed, same weights")
}

// TestOutputErrorAndPropagation checks both backward phases by hand.
func TestOutputErrorAndPropagation(t *testing.T) {
	hidden := newFixedDense(t, activations.ReLUID)
	out, err := NewDense(3, 1, activations.LinearID)
	require.NoError(t, err)
	require.NoError(t, out.SetParams([]float64{1, -2, 3, 0}))

	h, err := hidden.Forward([]float64{1, 2})
	require.NoError(t, err)
	_, err = out.Forward(h)
	require.NoError(t, err)

	require.NoError(t, out.SetOutputError([]float64{0.5}))
	assert.Equal(t, []float64{0.5}, out.Errors())

	require.NoError(t, out.PropagateTo(hidden))
	// (Wᵀ·e) = [0.5, -1, 1.5]; ReLU' on sums [0.51, 0.52, -0.73] = [1, 1, 0].
	assert.InDeltaSlice(t, []float64{0.5, -1, 0}, hidden.Errors(), 1e-12)

	hidden.ComputeGradients()
	grads := hidden.Gradients()
	assert.InDeltaSlice(t, []float64{
		0.5, 1.0,
		-1, -2,
		0, 0,
		0.5, -1, 0,
	}, grads, 1e-12)
}

func TestPropagateToMismatch(t *testing.T) {
	a, err := NewDense(2, 4, activations.LinearID)
	require.NoError(t, err)
	b, err := NewDense(3, 1, activations.LinearID)
	require.NoError(t, err)

	assert.True(t, nnerr.IsDimension(b.PropagateTo(a)))
	assert.True(t, nnerr.IsDimension(b.SetOutputError([]float64{1, 2})))
}

func TestStep(t *testing.T) {
	d := newFixedDense(t, activations.LinearID)
	before := d.Params()

	_, err := d.Forward([]float64{1, 2})
	require.NoError(t, err)
	require.NoError(t, d.SetOutputError([]float64{1, 0, -1}))
	d.ComputeGradients()
	d.Step(opt.SGD{LearningRate: 0.1})

	grads := []float64{1, 2, 0, 0, -1, -2, 1, 0, -1}
	for i, p := range d.Params() {
		assert.InDelta(t, before[i]-0.1*grads[i], p, 1e-12, "param %d", i)
	}
	assert.InDelta(t, 0.1-0.1, d.Weight(0, 0), 1e-12)
	assert.InDelta(t, -0.03+0.1, d.Bias(2), 1e-12)
}

func TestSetParamsDimension(t *testing.T) {
	d := newFixedDense(t, activations.LinearID)
	before := d.Params()

	err := d.SetParams(make([]float64, 3))
	assert.True(t, nnerr.IsDimension(err))
	assert.Equal(t, before, d.Params())
	assert.Equal(t, 9, d.NumParams())
}

func TestAccessors(t *testing.T) {
	d := newFixedDense(t, activations.LeakyReLUID)

	assert.Equal(t, 2, d.InSize())
	assert.Equal(t, 3, d.OutSize())
	assert.Equal(t, activations.LeakyReLUID, d.ActivationID())

	d.SetWeight(1, 0, 7)
	assert.Equal(t, 7.0, d.Weight(1, 0))
	assert.Equal(t, 7.0, d.Weights().At(1, 0))
	r, c := d.Weights().Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
}

func TestForwardIsBitIdentical(t *testing.T) {
	d, err := NewDense(17, 9, activations.SigmoidID)
	require.NoError(t, err)
	d.Randomize(rand.New(rand.NewSource(3)))

	x := make([]float64, 17)
	for i := range x {
		x[i] = math.Sin(float64(i))
	}
	a, err := d.Forward(x)
	require.NoError(t, err)
	first := append([]float64(nil), a...)
	b, err := d.Forward(x)
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, math.Float64bits(first[i]), math.Float64bits(b[i]))
	}
}
