// Package perceptron is the public entry point of the multi-layer perceptron
// engine: configure a network, train it online, and predict.
package perceptron

import (
	"github.com/FlavioCFOliveira/GoPerceptron/internal/activations"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/nnerr"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
)

// Re-export common types for easier access
type (
	Network      = net.Network
	Config       = net.Config
	Dataset      = net.Dataset
	MinMax       = net.MinMax
	Metrics      = net.Metrics
	Trainer      = net.Trainer
	Callback     = net.Callback
	ActivationID = activations.ID
	LossID       = loss.ID

	ConfigurationError = nnerr.ConfigurationError
	DimensionError     = nnerr.DimensionError
	NumericError       = nnerr.NumericError
)

// Activations
const (
	Sigmoid   = activations.SigmoidID
	ReLU      = activations.ReLUID
	LeakyReLU = activations.LeakyReLUID
	Heaviside = activations.HeavisideID
	Linear    = activations.LinearID
)

// Losses
const (
	MSE                = loss.MSEID
	BinaryCrossEntropy = loss.BinaryCrossEntropyID
)

// Capacity limits applied by Configure.
const (
	MaxLayers  = net.DefaultMaxLayers
	MaxNeurons = net.DefaultMaxNeurons
)

// Configure builds a network mapping inputWidth features through one dense
// layer per entry of layerWidths, layer i using activationIDs[i], trained
// against lossID. Weights are seeded with 0; use New for a custom seed or
// capacity limits.
func Configure(inputWidth int, layerWidths []int, activationIDs []ActivationID, lossID LossID) (*Network, error) {
	return net.New(Config{
		InputWidth:  inputWidth,
		LayerWidths: layerWidths,
		Activations: activationIDs,
		Loss:        lossID,
	})
}

// New builds a network from a full configuration.
func New(cfg Config) (*Network, error) {
	return net.New(cfg)
}

// Train runs epochs passes of online gradient descent over the dataset,
// sample by sample in order, at learning rate learningRate.
func Train(network *Network, features, labels [][]float64, epochs int, learningRate float64) error {
	_, err := net.NewTrainer(network).TrainEpochs(features, labels, epochs, learningRate)
	return err
}

// Predict returns the network's outputs for features and the index of the
// largest output.
func Predict(network *Network, features []float64) ([]float64, int, error) {
	return network.Predict(features)
}

// NewTrainer creates a trainer with optional callbacks.
func NewTrainer(network *Network, callbacks ...Callback) *Trainer {
	return net.NewTrainer(network, callbacks...)
}

// Learning rate schedules
func StepDecay(stepSize int, gamma float64) opt.Schedule {
	return opt.StepDecay{StepSize: stepSize, Gamma: gamma}
}

func ExponentialDecay(gamma float64) opt.Schedule {
	return opt.ExponentialDecay{Gamma: gamma}
}

// Callbacks
func Logger(interval int) net.Logger {
	return net.Logger{Interval: interval}
}

func CSVLogger(filename string, append bool) *net.CSVLogger {
	return net.NewCSVLogger(filename, append)
}

func ModelCheckpoint(filename string) *net.ModelCheckpoint {
	return net.NewModelCheckpoint(filename)
}

func EarlyStopping(patience int, threshold float64) *net.EarlyStopping {
	return net.NewEarlyStopping(patience, threshold)
}

// Data and persistence
func LoadCSV(filename string, labelCols []int, hasHeader bool) (*Dataset, error) {
	return net.LoadCSV(filename, labelCols, hasHeader)
}

// FitMinMax computes per-feature normalization bounds from samples.
func FitMinMax(samples [][]float64) (MinMax, error) {
	return net.FitMinMax(samples)
}

func LoadConfig(filename string) (Config, error) {
	return net.LoadConfig(filename)
}

func Load(filename string) (*Network, error) {
	return net.Load(filename)
}

// ParseActivation resolves an activation by name or numeric id.
func ParseActivation(s string) (ActivationID, error) {
	return activations.ParseID(s)
}

// ParseLoss resolves a loss by name or numeric id.
func ParseLoss(s string) (LossID, error) {
	return loss.ParseID(s)
}
