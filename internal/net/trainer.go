package net

import (
	"github.com/FlavioCFOliveira/GoPerceptron/internal/nnerr"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
	"github.com/pkg/errors"
)

// Trainer runs online (per-sample) gradient descent over a dataset.
//
// Samples are processed strictly in dataset order; there is no shuffling
// and no convergence check. Callbacks are notified around every epoch.
type Trainer struct {
	Network   *Network
	Schedule  opt.Schedule // nil means opt.Constant
	Callbacks []Callback

	epoch int // epochs completed so far, drives the schedule
}

// RateObserver is implemented by callbacks that record the learning rate
// the schedule picked for each epoch. It is called before OnEpochBegin.
type RateObserver interface {
	ObserveRate(epoch int, rate float64)
}

// NewTrainer creates a trainer for n with a constant learning rate.
func NewTrainer(n *Network, callbacks ...Callback) *Trainer {
	return &Trainer{
		Network:   n,
		Schedule:  opt.Constant{},
		Callbacks: callbacks,
	}
}

// Epoch returns the number of epochs completed by the trainer.
func (t *Trainer) Epoch() int {
	return t.epoch
}

func (t *Trainer) rate(lr float64) float64 {
	if t.Schedule == nil {
		return lr
	}
	return t.Schedule.Rate(lr, t.epoch)
}

// TrainOneEpoch trains on every sample once and returns the mean loss of the
// epoch, each sample's loss taken before its update. The dataset is
// validated first, so a DimensionError leaves the network untouched.
func (t *Trainer) TrainOneEpoch(samples, labels [][]float64, lr float64) (float64, error) {
	if err := t.Network.validateDataset(samples, labels); err != nil {
		return 0, err
	}
	if len(samples) == 0 {
		return 0, nnerr.Numeric("train epoch", "empty dataset")
	}
	return t.runEpoch(samples, labels, lr)
}

func (t *Trainer) runEpoch(samples, labels [][]float64, lr float64) (float64, error) {
	rate := t.rate(lr)
	for _, cb := range t.Callbacks {
		if ro, ok := cb.(RateObserver); ok {
			ro.ObserveRate(t.epoch, rate)
		}
		cb.OnEpochBegin(t.epoch, t.Network)
	}

	var total float64
	for i := range samples {
		l, err := t.Network.TrainSample(samples[i], labels[i], rate)
		if err != nil {
			return 0, errors.Wrapf(err, "epoch %d, sample %d", t.epoch, i)
		}
		total += l
	}
	mean := total / float64(len(samples))

	for _, cb := range t.Callbacks {
		cb.OnEpochEnd(t.epoch, mean, t.Network)
	}
	t.epoch++
	return mean, nil
}

// TrainEpochs runs epochs passes over the dataset and returns the mean loss
// of the last epoch. epochs == 0 returns immediately with a zero loss and
// leaves every parameter unchanged.
//
// Training ends early when a registered *EarlyStopping reports Stopped.
func (t *Trainer) TrainEpochs(samples, labels [][]float64, epochs int, lr float64) (float64, error) {
	if epochs < 0 {
		return 0, nnerr.Configuration("epochs", "must not be negative, got %d", epochs)
	}
	if err := t.Network.validateDataset(samples, labels); err != nil {
		return 0, err
	}
	if epochs == 0 {
		return 0, nil
	}
	if len(samples) == 0 {
		return 0, nnerr.Numeric("train", "empty dataset")
	}

	for _, cb := range t.Callbacks {
		cb.OnTrainBegin(t.Network)
	}
	defer func() {
		for _, cb := range t.Callbacks {
			cb.OnTrainEnd(t.Network)
		}
	}()

	var last float64
	for e := 0; e < epochs; e++ {
		l, err := t.runEpoch(samples, labels, lr)
		if err != nil {
			return 0, err
		}
		last = l
		if t.stopped() {
			break
		}
	}
	return last, nil
}

func (t *Trainer) stopped() bool {
	for _, cb := range t.Callbacks {
		if es, ok := cb.(*EarlyStopping); ok && es.Stopped {
			return true
		}
	}
	return false
}
