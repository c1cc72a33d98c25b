package net

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/pkg/errors"
)

// snapshot is the gob payload of a saved network.
type snapshot struct {
	Config Config
	Params []float64
}

// Encode writes the network configuration and parameters to w using gob.
// Scratch buffers and gradients are not saved.
func (n *Network) Encode(w io.Writer) error {
	s := snapshot{Config: n.Config(), Params: n.Params()}
	if err := gob.NewEncoder(w).Encode(&s); err != nil {
		return errors.Wrap(err, "failed to encode network")
	}
	return nil
}

// Decode reads a network written by Encode.
func Decode(r io.Reader) (*Network, error) {
	var s snapshot
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(err, "failed to decode network")
	}

	n, err := New(s.Config)
	if err != nil {
		return nil, errors.Wrap(err, "invalid saved configuration")
	}
	if err := n.SetParams(s.Params); err != nil {
		return nil, errors.Wrap(err, "invalid saved parameters")
	}
	return n, nil
}

// Save saves the network to a file using gob encoding.
func (n *Network) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	if err := n.Encode(file); err != nil {
		return err
	}
	return errors.Wrap(file.Sync(), "failed to sync file")
}

// Load loads a network saved with Save.
func Load(filename string) (*Network, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return Decode(file)
}
