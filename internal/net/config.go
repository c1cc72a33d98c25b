package net

import (
	"encoding/json"
	"os"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/activations"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/nnerr"
	"github.com/pkg/errors"
)

// Default capacity limits, used when the Config leaves them at zero.
const (
	DefaultMaxLayers  = 16
	DefaultMaxNeurons = 1024
)

// Config describes a network topology.
//
// Layer i maps a vector of width LayerWidths[i-1] (InputWidth for i = 0) to
// one of width LayerWidths[i] through Activations[i].
type Config struct {
	InputWidth  int              `json:"input_width"`
	LayerWidths []int            `json:"layer_widths"`
	Activations []activations.ID `json:"activations"`
	Loss        loss.ID          `json:"loss"`

	// Seed drives weight initialization; equal seeds give equal networks.
	Seed int64 `json:"seed"`

	MaxLayers  int `json:"max_layers,omitempty"`
	MaxNeurons int `json:"max_neurons,omitempty"`
}

func (c Config) maxLayers() int {
	if c.MaxLayers == 0 {
		return DefaultMaxLayers
	}
	return c.MaxLayers
}

func (c Config) maxNeurons() int {
	if c.MaxNeurons == 0 {
		return DefaultMaxNeurons
	}
	return c.MaxNeurons
}

// Validate checks the configuration and returns a ConfigurationError
// describing the first problem found.
func (c Config) Validate() error {
	if c.MaxLayers < 0 {
		return nnerr.Configuration("max_layers", "must not be negative, got %d", c.MaxLayers)
	}
	if c.MaxNeurons < 0 {
		return nnerr.Configuration("max_neurons", "must not be negative, got %d", c.MaxNeurons)
	}

	maxNeurons := c.maxNeurons()
	if c.InputWidth <= 0 {
		return nnerr.Configuration("input_width", "must be positive, got %d", c.InputWidth)
	}
	if c.InputWidth > maxNeurons {
		return nnerr.Configuration("input_width", "%d exceeds the neuron capacity %d", c.InputWidth, maxNeurons)
	}

	if len(c.LayerWidths) == 0 {
		return nnerr.Configuration("layer_widths", "at least one layer is required")
	}
	if len(c.LayerWidths) > c.maxLayers() {
		return nnerr.Configuration("layer_widths", "%d layers exceed the layer capacity %d", len(c.LayerWidths), c.maxLayers())
	}
	if len(c.Activations) != len(c.LayerWidths) {
		return nnerr.Configuration("activations", "got %d activation ids for %d layers", len(c.Activations), len(c.LayerWidths))
	}

	for i, w := range c.LayerWidths {
		if w <= 0 {
			return nnerr.Configuration("layer_widths", "layer %d: width must be positive, got %d", i, w)
		}
		if w > maxNeurons {
			return nnerr.Configuration("layer_widths", "layer %d: width %d exceeds the neuron capacity %d", i, w, maxNeurons)
		}
		if !c.Activations[i].Valid() {
			return nnerr.Configuration("activations", "layer %d: unknown activation id %d", i, int(c.Activations[i]))
		}
	}

	if !c.Loss.Valid() {
		return nnerr.Configuration("loss", "unknown loss id %d", int(c.Loss))
	}
	return nil
}

func (c Config) clone() Config {
	c.LayerWidths = append([]int(nil), c.LayerWidths...)
	c.Activations = append([]activations.ID(nil), c.Activations...)
	return c
}

// LoadConfig reads a JSON configuration file such as
//
//	{"input_width": 4, "layer_widths": [10, 3],
//	 "activations": ["relu", "sigmoid"], "loss": "mse", "seed": 42}
//
// The result is validated.
func LoadConfig(filename string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to read config")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", filename)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
