package net

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

var csvLogHeader = []string{"epoch", "loss", "learning_rate", "time_seconds"}

// CSVLogger records one row per epoch: the epoch index, its mean loss, the
// learning rate the trainer scheduled for it and the seconds since training
// began. The learning rate column is empty when no Trainer reported it.
//
// Write failures do not stop training. The first one is kept for Err and
// every one is reported through Log.
type CSVLogger struct {
	BaseCallback
	Filename string
	Append   bool
	Log      *log.Logger // defaults to the standard logger

	sink   io.Writer // set by NewCSVLoggerTo; otherwise the file is opened per run
	file   *os.File
	writer *csv.Writer
	start  time.Time
	err    error

	rateEpoch int
	rate      float64
	hasRate   bool
}

// NewCSVLogger creates a logger writing to filename, truncating it on every
// training run unless append is set.
func NewCSVLogger(filename string, append bool) *CSVLogger {
	return &CSVLogger{
		Filename: filename,
		Append:   append,
	}
}

// NewCSVLoggerTo creates a logger writing to w. The header is written at the
// start of every training run.
func NewCSVLoggerTo(w io.Writer) *CSVLogger {
	return &CSVLogger{sink: w}
}

// Err returns the first write failure, if any.
func (c *CSVLogger) Err() error {
	return c.err
}

func (c *CSVLogger) fail(err error, msg string) {
	err = errors.Wrap(err, msg)
	if c.err == nil {
		c.err = err
	}
	out := c.Log
	if out == nil {
		out = log.Default()
	}
	out.Printf("CSVLogger: %v", err)
}

// ObserveRate records the learning rate used for epoch.
func (c *CSVLogger) ObserveRate(epoch int, rate float64) {
	c.rateEpoch, c.rate, c.hasRate = epoch, rate, true
}

func (c *CSVLogger) OnTrainBegin(n *Network) {
	if c.writer != nil || c.file != nil {
		c.OnTrainEnd(n)
	}
	c.start = time.Now()
	c.hasRate = false

	writeHeader := true
	out := c.sink
	if out == nil {
		mode := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		if c.Append {
			mode = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		}
		file, err := os.OpenFile(c.Filename, mode, 0644)
		if err != nil {
			c.fail(err, "failed to open "+c.Filename)
			return
		}
		if info, err := file.Stat(); err == nil && info.Size() > 0 {
			writeHeader = false
		}
		c.file = file
		out = file
	}

	c.writer = csv.NewWriter(out)
	if writeHeader {
		c.write(csvLogHeader)
	}
}

func (c *CSVLogger) OnEpochEnd(epoch int, loss float64, n *Network) {
	if c.writer == nil {
		return
	}

	rate := ""
	if c.hasRate && c.rateEpoch == epoch {
		rate = strconv.FormatFloat(c.rate, 'g', -1, 64)
	}
	c.write([]string{
		strconv.Itoa(epoch),
		strconv.FormatFloat(loss, 'f', 6, 64),
		rate,
		strconv.FormatFloat(time.Since(c.start).Seconds(), 'f', 2, 64),
	})
}

// write emits one record and flushes it so that a crash loses at most the
// current epoch.
func (c *CSVLogger) write(record []string) {
	if err := c.writer.Write(record); err != nil {
		c.fail(err, "failed to write record")
		return
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		c.fail(err, "failed to flush record")
	}
}

func (c *CSVLogger) OnTrainEnd(n *Network) {
	if c.writer != nil {
		c.writer.Flush()
		if err := c.writer.Error(); err != nil {
			c.fail(err, "failed to flush log")
		}
		c.writer = nil
	}
	if c.file != nil {
		if err := c.file.Close(); err != nil {
			c.fail(err, "failed to close "+c.Filename)
		}
		c.file = nil
	}
}
