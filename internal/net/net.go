// Package net provides the network, its trainer and the collaborators that
// feed it (CSV datasets, gob persistence, training callbacks).
package net

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/layer"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/nnerr"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrNoForwardPass is returned by Backward when no successful Forward
	// call precedes it.
	ErrNoForwardPass = errors.New("net: backward requires a preceding forward pass")

	// ErrNoGradients is returned by Step when Backward has not produced
	// gradients since the last step.
	ErrNoGradients = errors.New("net: step requires a preceding backward pass")
)

// Network is an ordered sequence of dense layers plus a loss function.
//
// A Network owns its layers and all parameters. It is not safe for
// concurrent use: every call reads and writes per-layer scratch buffers.
type Network struct {
	cfg    Config
	layers []*layer.Dense
	loss   loss.Loss

	// Pre-allocated loss gradient buffer for training
	deltaBuf []float64

	forwarded  bool
	backwarded bool
}

// New builds a network from cfg. Weights are drawn uniformly from
// [-0.5, 0.5) with a source seeded by cfg.Seed; biases start at zero.
func New(cfg Config) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lossFn, err := loss.New(cfg.Loss)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	layers := make([]*layer.Dense, len(cfg.LayerWidths))
	in := cfg.InputWidth
	for i, width := range cfg.LayerWidths {
		d, err := layer.NewDense(in, width, cfg.Activations[i])
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		d.Randomize(rng)
		layers[i] = d
		in = width
	}

	n := &Network{
		cfg:      cfg.clone(),
		layers:   layers,
		loss:     lossFn,
		deltaBuf: make([]float64, in),
	}
	if err := n.checkChain(); err != nil {
		return nil, err
	}
	return n, nil
}

// checkChain verifies that every layer's output width feeds the next one.
func (n *Network) checkChain() error {
	for i := 1; i < len(n.layers); i++ {
		if n.layers[i-1].OutSize() != n.layers[i].InSize() {
			return nnerr.Configuration("layer_widths", "layer %d outputs %d values but layer %d expects %d",
				i-1, n.layers[i-1].OutSize(), i, n.layers[i].InSize())
		}
	}
	return nil
}

// Forward performs a forward pass through all layers and returns the
// prediction. The returned slice is the last layer's output buffer and is
// overwritten by the next call.
func (n *Network) Forward(x []float64) ([]float64, error) {
	if len(x) != n.InputWidth() {
		return nil, nnerr.Dimension("network forward", n.InputWidth(), len(x))
	}

	n.forwarded = false
	n.backwarded = false
	curr := x
	for i, l := range n.layers {
		out, err := l.Forward(curr)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		curr = out
	}
	n.forwarded = true
	return curr, nil
}

// Backward computes the error signal and the parameter gradients of every
// layer for the prediction of the last Forward call against target. No
// parameter is modified; see Step.
func (n *Network) Backward(target []float64) error {
	if !n.forwarded {
		return ErrNoForwardPass
	}
	last := n.layers[len(n.layers)-1]
	if len(target) != last.OutSize() {
		return nnerr.Dimension("network backward", last.OutSize(), len(target))
	}

	if err := n.loss.BackwardInPlace(last.Output(), target, n.deltaBuf); err != nil {
		return err
	}
	if err := last.SetOutputError(n.deltaBuf); err != nil {
		return err
	}
	for i := len(n.layers) - 1; i > 0; i-- {
		if err := n.layers[i].PropagateTo(n.layers[i-1]); err != nil {
			return errors.Wrapf(err, "layer %d", i)
		}
	}
	for _, l := range n.layers {
		l.ComputeGradients()
	}
	n.backwarded = true
	return nil
}

// Step applies the gradients of the last Backward call to every layer:
// weight -= lr * gradW, bias -= lr * gradB. Gradients are consumed, so a
// second Step needs a new Backward.
func (n *Network) Step(lr float64) error {
	if !n.backwarded {
		return ErrNoGradients
	}
	sgd := opt.SGD{LearningRate: lr}
	for _, l := range n.layers {
		l.Step(sgd)
	}
	n.backwarded = false
	return nil
}

// TrainSample runs forward, backward and one update for a single sample and
// returns the sample's loss before the update.
func (n *Network) TrainSample(x, y []float64, lr float64) (float64, error) {
	if len(y) != n.OutputWidth() {
		return 0, nnerr.Dimension("train sample", n.OutputWidth(), len(y))
	}

	yPred, err := n.Forward(x)
	if err != nil {
		return 0, err
	}
	l, err := n.loss.Forward(yPred, y)
	if err != nil {
		return 0, err
	}
	if err := n.Backward(y); err != nil {
		return 0, err
	}
	if err := n.Step(lr); err != nil {
		return 0, err
	}
	return l, nil
}

// Predict runs a forward pass and returns a copy of the outputs together
// with the index of the largest output. Ties go to the lowest index.
func (n *Network) Predict(x []float64) ([]float64, int, error) {
	yPred, err := n.Forward(x)
	if err != nil {
		return nil, 0, err
	}
	out := append([]float64(nil), yPred...)
	return out, floats.MaxIdx(out), nil
}

// Loss returns the loss of the network's prediction for x against y.
func (n *Network) Loss(x, y []float64) (float64, error) {
	if len(y) != n.OutputWidth() {
		return 0, nnerr.Dimension("loss", n.OutputWidth(), len(y))
	}
	yPred, err := n.Forward(x)
	if err != nil {
		return 0, err
	}
	return n.loss.Forward(yPred, y)
}

// Metrics summarizes a network's performance on a dataset.
type Metrics struct {
	Loss     float64 // mean loss
	Accuracy float64 // fraction of samples whose output argmax matches the label argmax
}

// Evaluate computes the mean loss and argmax accuracy over a dataset
// without modifying parameters.
func (n *Network) Evaluate(samples, labels [][]float64) (Metrics, error) {
	if err := n.validateDataset(samples, labels); err != nil {
		return Metrics{}, err
	}
	if len(samples) == 0 {
		return Metrics{}, nnerr.Numeric("evaluate", "empty dataset")
	}

	var m Metrics
	var correct int
	for i := range samples {
		out, idx, err := n.Predict(samples[i])
		if err != nil {
			return Metrics{}, errors.Wrapf(err, "sample %d", i)
		}
		l, err := n.loss.Forward(out, labels[i])
		if err != nil {
			return Metrics{}, errors.Wrapf(err, "sample %d", i)
		}
		m.Loss += l
		if idx == floats.MaxIdx(labels[i]) {
			correct++
		}
	}
	m.Loss /= float64(len(samples))
	m.Accuracy = float64(correct) / float64(len(samples))
	return m, nil
}

// validateDataset checks counts and vector widths of a dataset before any
// sample is processed.
func (n *Network) validateDataset(samples, labels [][]float64) error {
	if len(samples) != len(labels) {
		return nnerr.Dimension("dataset labels", len(samples), len(labels))
	}
	for i := range samples {
		if len(samples[i]) != n.InputWidth() {
			return errors.Wrapf(nnerr.Dimension("dataset features", n.InputWidth(), len(samples[i])), "sample %d", i)
		}
		if len(labels[i]) != n.OutputWidth() {
			return errors.Wrapf(nnerr.Dimension("dataset labels", n.OutputWidth(), len(labels[i])), "sample %d", i)
		}
	}
	return nil
}

// Params returns all network parameters flattened (copy), layer by layer.
func (n *Network) Params() []float64 {
	params := make([]float64, 0, n.NumParams())
	for _, l := range n.layers {
		params = append(params, l.Params()...)
	}
	return params
}

// SetParams replaces all parameters from a slice laid out like Params.
func (n *Network) SetParams(params []float64) error {
	if len(params) != n.NumParams() {
		return nnerr.Dimension("network set params", n.NumParams(), len(params))
	}
	offset := 0
	for _, l := range n.layers {
		size := l.NumParams()
		if err := l.SetParams(params[offset : offset+size]); err != nil {
			return err
		}
		offset += size
	}
	return nil
}

// Gradients returns the gradients of the last Backward call flattened like
// Params.
func (n *Network) Gradients() []float64 {
	gradients := make([]float64, 0, n.NumParams())
	for _, l := range n.layers {
		gradients = append(gradients, l.Gradients()...)
	}
	return gradients
}

// NumParams returns the total number of weights and biases.
func (n *Network) NumParams() int {
	total := 0
	for _, l := range n.layers {
		total += l.NumParams()
	}
	return total
}

// Layers returns the network's layers slice.
func (n *Network) Layers() []*layer.Dense {
	return n.layers
}

// Config returns a copy of the configuration the network was built from.
func (n *Network) Config() Config {
	return n.cfg.clone()
}

// LossID returns the id of the network's loss function.
func (n *Network) LossID() loss.ID {
	return n.cfg.Loss
}

// InputWidth returns the length of the feature vectors the network accepts.
func (n *Network) InputWidth() int {
	return n.layers[0].InSize()
}

// OutputWidth returns the length of the network's prediction.
func (n *Network) OutputWidth() int {
	return n.layers[len(n.layers)-1].OutSize()
}

// Summary writes a table of the network architecture to w.
func (n *Network) Summary(w io.Writer) {
	fmt.Fprintln(w, "Model: MLP")
	fmt.Fprintln(w, "_________________________________________________________________")
	fmt.Fprintf(w, "%-25s %-20s %-10s\n", "Layer (activation)", "Output Shape", "Param #")
	fmt.Fprintln(w, "=================================================================")
	for i, l := range n.layers {
		name := fmt.Sprintf("dense_%d (%s)", i, l.ActivationID())
		fmt.Fprintf(w, "%-25s %-20s %-10d\n", name, fmt.Sprintf("(%d)", l.OutSize()), l.NumParams())
	}
	fmt.Fprintln(w, "=================================================================")
	fmt.Fprintf(w, "Input width: %d\n", n.InputWidth())
	fmt.Fprintf(w, "Loss: %s\n", n.cfg.Loss)
	fmt.Fprintf(w, "Total params: %d\n", n.NumParams())
	fmt.Fprintln(w, "_________________________________________________________________")
}
