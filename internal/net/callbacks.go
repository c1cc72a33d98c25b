package net

import (
	"log"
	"math"
)

// Callback defines the interface for training callbacks.
type Callback interface {
	OnTrainBegin(n *Network)
	OnTrainEnd(n *Network)
	OnEpochBegin(epoch int, n *Network)
	OnEpochEnd(epoch int, loss float64, n *Network)
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(n *Network)                        {}
func (c BaseCallback) OnTrainEnd(n *Network)                          {}
func (c BaseCallback) OnEpochBegin(epoch int, n *Network)             {}
func (c BaseCallback) OnEpochEnd(epoch int, loss float64, n *Network) {}

// EarlyStopping tracks the epoch loss and reports when it has stopped
// improving by more than Threshold for Patience consecutive epochs.
//
// It is driven by the caller between epochs through Observe, or by a
// Trainer when registered as a callback. The zero value is usable; a
// Trainer resets it at the start of every TrainEpochs call.
type EarlyStopping struct {
	BaseCallback
	Patience  int
	Threshold float64

	bestLoss     float64
	seen         bool
	numBadEpochs int
	Stopped      bool
}

func NewEarlyStopping(patience int, threshold float64) *EarlyStopping {
	return &EarlyStopping{
		Patience:  patience,
		Threshold: threshold,
	}
}

// Reset forgets every observed loss.
func (c *EarlyStopping) Reset() {
	c.bestLoss = math.Inf(1)
	c.seen = false
	c.numBadEpochs = 0
	c.Stopped = false
}

// Observe records one epoch loss and returns true once training should stop.
func (c *EarlyStopping) Observe(loss float64) bool {
	if !c.seen || loss < c.bestLoss-c.Threshold {
		c.bestLoss = loss
		c.seen = true
		c.numBadEpochs = 0
	} else {
		c.numBadEpochs++
	}

	if c.numBadEpochs >= c.Patience && c.numBadEpochs > 0 {
		c.Stopped = true
	}
	return c.Stopped
}

// BestLoss returns the lowest loss observed so far, +Inf before the first.
func (c *EarlyStopping) BestLoss() float64 {
	if !c.seen {
		return math.Inf(1)
	}
	return c.bestLoss
}

func (c *EarlyStopping) OnTrainBegin(n *Network) {
	c.Reset()
}

func (c *EarlyStopping) OnEpochEnd(epoch int, loss float64, n *Network) {
	c.Observe(loss)
}

// ModelCheckpoint saves the network after every epoch whose loss is the best
// so far. The best loss is kept across training runs.
type ModelCheckpoint struct {
	BaseCallback
	Filename string
	Logger   *log.Logger // optional

	bestLoss float64
	seen     bool
}

func NewModelCheckpoint(filename string) *ModelCheckpoint {
	return &ModelCheckpoint{Filename: filename}
}

func (c *ModelCheckpoint) OnEpochEnd(epoch int, loss float64, n *Network) {
	if c.seen && loss >= c.bestLoss {
		return
	}
	c.bestLoss = loss
	c.seen = true
	err := n.Save(c.Filename)
	if c.Logger == nil {
		return
	}
	if err != nil {
		c.Logger.Printf("checkpoint: %v", err)
	} else {
		c.Logger.Printf("checkpoint saved: loss %.6f is new best", loss)
	}
}

// Logger logs training progress every Interval epochs.
type Logger struct {
	BaseCallback
	Interval int
	Out      *log.Logger // defaults to the standard logger
}

func (c Logger) OnEpochEnd(epoch int, loss float64, n *Network) {
	if c.Interval <= 0 || epoch%c.Interval != 0 {
		return
	}
	out := c.Out
	if out == nil {
		out = log.Default()
	}
	out.Printf("epoch %d: loss = %.6f", epoch, loss)
}
