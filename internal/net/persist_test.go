package net

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/activations"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	cfg := Config{
		InputWidth:  3,
		LayerWidths: []int{4, 2},
		Activations: []activations.ID{activations.LeakyReLUID, activations.SigmoidID},
		Loss:        loss.BinaryCrossEntropyID,
		Seed:        5,
		MaxNeurons:  8,
	}
	n := mustNew(t, cfg)
	_, err := NewTrainer(n).TrainEpochs([][]float64{{0.1, 0.2, 0.3}}, [][]float64{{1, 0}}, 3, 0.1)
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, n.Save(filename))

	loaded, err := Load(filename)
	require.NoError(t, err)
	assert.Equal(t, n.Config(), loaded.Config())
	assert.Equal(t, n.Params(), loaded.Params())

	x := []float64{0.5, -0.5, 1}
	want, wantIdx, err := n.Predict(x)
	require.NoError(t, err)
	got, gotIdx, err := loaded.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, wantIdx, gotIdx)
}

func TestEncodeDecode(t *testing.T) {
	n := mustNew(t, linearConfig(2, 3, 1))

	var buf bytes.Buffer
	require.NoError(t, n.Encode(&buf))
	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, n.Params(), decoded.Params())
	assert.Equal(t, loss.MSEID, decoded.LossID())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.gob"))
	assert.ErrorContains(t, err, "failed to open file")

	garbage := filepath.Join(dir, "garbage.gob")
	require.NoError(t, os.WriteFile(garbage, []byte("not a network"), 0644))
	_, err = Load(garbage)
	assert.ErrorContains(t, err, "failed to decode network")
}
