// Package activations provides unit tests for activation functions.
package activations

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/nnerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReLU tests ReLU activation.
func TestReLU(t *testing.T) {
	relu := ReLU{}

	tests := []struct {
		input    float64
		expected float64
	}{
		{-1.0, 0.0},
		{0.0, 0.0},
		{1.0, 1.0},
		{2.5, 2.5},
		{-0.1, 0.0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, relu.Activate(tt.input), "ReLU(%v)", tt.input)
	}
}

// TestReLUDerivative tests ReLU derivative, including the convention at zero.
func TestReLUDerivative(t *testing.T) {
	relu := ReLU{}

	tests := []struct {
		input    float64
		expected float64
	}{
		{-1.0, 0.0},
		{0.0, 0.0},
		{1.0, 1.0},
		{2.5, 1.0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, relu.Derivative(tt.input), "ReLU'(%v)", tt.input)
	}
}

// TestSigmoidNearZero compares the approximated sigmoid to the logistic function.
func TestSigmoidNearZero(t *testing.T) {
	sigmoid := Sigmoid{}

	assert.Equal(t, 0.5, sigmoid.Activate(0))
	assert.Equal(t, 0.25, sigmoid.Derivative(0))

	for x := -1.0; x <= 1.0; x += 0.1 {
		want := 1 / (1 + math.Exp(-x))
		assert.InDelta(t, want, sigmoid.Activate(x), 5e-3, "Sigmoid(%v)", x)
	}
}

// TestSigmoidApproximationBoundary pins the documented behaviour far from zero.
func TestSigmoidApproximationBoundary(t *testing.T) {
	sigmoid := Sigmoid{}

	for x := -30.0; x <= 30.0; x += 0.25 {
		y := sigmoid.Activate(x)
		require.False(t, math.IsNaN(y) || math.IsInf(y, 0), "Sigmoid(%v) = %v", x, y)
		require.Greater(t, y, 0.0)
		require.Less(t, y, 0.8)
	}
	// Far to the right the polynomial pulls the output back towards zero.
	assert.Less(t, sigmoid.Activate(20), 0.01)
}

func TestSigmoidDerivativeMatchesFiniteDifference(t *testing.T) {
	sigmoid := Sigmoid{}
	const h = 1e-6

	for _, x := range []float64{-0.8, -0.3, 0, 0.4, 0.9} {
		numeric := (sigmoid.Activate(x+h) - sigmoid.Activate(x-h)) / (2 * h)
		// The derivative uses the closed form s(1-s), which is only exact for the
		// true exponential, so allow for the polynomial's deviation.
		assert.InDelta(t, numeric, sigmoid.Derivative(x), 2e-2, "Sigmoid'(%v)", x)
	}
}

// TestLeakyReLU tests LeakyReLU activation and derivative.
func TestLeakyReLU(t *testing.T) {
	leaky := NewLeakyReLU(DefaultLeakySlope)

	assert.Equal(t, 3.0, leaky.Activate(3))
	assert.InDelta(t, -0.02, leaky.Activate(-2), 1e-15)
	assert.Equal(t, 0.0, leaky.Activate(0))
	assert.Equal(t, 1.0, leaky.Derivative(0.5))
	assert.Equal(t, 0.01, leaky.Derivative(0))
	assert.Equal(t, 0.01, leaky.Derivative(-4))
}

func TestHeaviside(t *testing.T) {
	h := Heaviside{}

	assert.Equal(t, 0.0, h.Activate(-1))
	assert.Equal(t, 0.0, h.Activate(0))
	assert.Equal(t, 1.0, h.Activate(1e-9))
	for _, x := range []float64{-1, 0, 1} {
		assert.Equal(t, 0.0, h.Derivative(x))
	}
}

func TestLinear(t *testing.T) {
	l := Linear{}

	for _, x := range []float64{-3.5, 0, 2} {
		assert.Equal(t, x, l.Activate(x))
		assert.Equal(t, 1.0, l.Derivative(x))
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		id   ID
		want Activation
	}{
		{SigmoidID, Sigmoid{}},
		{ReLUID, ReLU{}},
		{LeakyReLUID, &LeakyReLU{Alpha: 0.01}},
		{HeavisideID, Heaviside{}},
		{LinearID, Linear{}},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			got, err := New(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsUnknownID(t *testing.T) {
	for _, id := range []ID{-1, 5, 42} {
		act, err := New(id)
		require.Error(t, err)
		assert.Nil(t, act)
		assert.True(t, nnerr.IsConfiguration(err), "id %d", id)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in   string
		want ID
	}{
		{"0", SigmoidID},
		{"sigmoid", SigmoidID},
		{" ReLU ", ReLUID},
		{"2", LeakyReLUID},
		{"leaky_relu", LeakyReLUID},
		{"heaviside", HeavisideID},
		{"4", LinearID},
		{"linear", LinearID},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "5", "-1", "tanh"} {
		_, err := ParseID(bad)
		assert.True(t, nnerr.IsConfiguration(err), "ParseID(%q)", bad)
	}
}

func TestIDJSON(t *testing.T) {
	ids := []ID{SigmoidID, LinearID, ReLUID}

	data, err := json.Marshal(ids)
	require.NoError(t, err)
	assert.JSONEq(t, `["sigmoid","linear","relu"]`, string(data))

	var decoded []ID
	require.NoError(t, json.Unmarshal([]byte(`["sigmoid","4","relu"]`), &decoded))
	assert.Equal(t, ids, decoded)

	err = json.Unmarshal([]byte(`["softmax"]`), &decoded)
	assert.Error(t, err)
}
