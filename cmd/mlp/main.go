package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/activations"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
)

// mlp trains a multi-layer perceptron on a CSV dataset and runs predictions
// with a saved model.
//
//	mlp train -data iris.csv -labels 4 -header -classes 3 -layers 10,3 -activations relu,sigmoid -out iris.gob
//	mlp predict -model iris.gob -data iris.csv -labels 4 -header -classes 3
func main() {
	log.SetFlags(0)
	log.SetPrefix("mlp: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "train":
		err = runTrain(os.Args[2:])
	case "predict":
		err = runPredict(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: mlp <train|predict> [flags]")
	fmt.Fprintln(os.Stderr, "run 'mlp <command> -h' for the flags of a command")
}

// dataFlags are shared by both subcommands.
type dataFlags struct {
	path      string
	labels    string
	header    bool
	classes   int
	normalize bool
}

func (d *dataFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&d.path, "data", "", "CSV dataset `file`")
	fs.StringVar(&d.labels, "labels", "", "comma separated label column indices")
	fs.BoolVar(&d.header, "header", false, "skip the first CSV line")
	fs.IntVar(&d.classes, "classes", 0, "one-hot encode a single class label column into this many classes")
	fs.BoolVar(&d.normalize, "normalize", false, "min-max normalize the features; predict reuses the bounds saved by train")
}

func (d *dataFlags) load() (*net.Dataset, error) {
	if d.path == "" {
		return nil, fmt.Errorf("-data is required")
	}
	labelCols, err := parseInts(d.labels)
	if err != nil {
		return nil, fmt.Errorf("-labels: %v", err)
	}
	ds, err := net.LoadCSV(d.path, labelCols, d.header)
	if err != nil {
		return nil, err
	}
	if d.classes > 0 {
		if err := ds.OneHot(d.classes); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	var data dataFlags
	data.register(fs)
	configPath := fs.String("config", "", "JSON topology `file`; overrides -layers, -activations, -loss and -seed")
	layers := fs.String("layers", "", "comma separated layer widths, e.g. 10,3")
	acts := fs.String("activations", "", "comma separated activation per layer (sigmoid, relu, leaky_relu, heaviside, linear)")
	lossName := fs.String("loss", "mse", "loss function (mse, binary_cross_entropy)")
	seed := fs.Int64("seed", 42, "weight initialization seed")
	epochs := fs.Int("epochs", 100, "number of epochs")
	lr := fs.Float64("lr", 0.01, "learning rate")
	decay := fs.Float64("decay", 1, "per-epoch exponential learning rate decay")
	split := fs.Float64("split", 1, "fraction of rows used for training; the rest is evaluated")
	patience := fs.Int("patience", 0, "stop after this many epochs without improvement (0 disables)")
	interval := fs.Int("log-interval", 10, "log the loss every n epochs")
	csvLog := fs.String("log-csv", "", "write per-epoch loss to this CSV `file`")
	out := fs.String("out", "model.gob", "output model `file`")
	fs.Parse(args)

	ds, err := data.load()
	if err != nil {
		return err
	}

	var cfg net.Config
	if *configPath != "" {
		cfg, err = net.LoadConfig(*configPath)
		if err != nil {
			return err
		}
	} else {
		cfg, err = flagConfig(*layers, *acts, *lossName, *seed)
		if err != nil {
			return err
		}
		cfg.InputWidth = len(ds.Samples[0])
	}

	network, err := net.New(cfg)
	if err != nil {
		return err
	}
	network.Summary(os.Stdout)

	train, test := ds.Split(*split)
	if data.normalize {
		bounds, err := net.FitMinMax(train.Samples)
		if err != nil {
			return err
		}
		if err := bounds.Apply(train.Samples); err != nil {
			return err
		}
		if err := bounds.Apply(test.Samples); err != nil {
			return err
		}
		if err := net.SaveMinMax(minMaxPath(*out), bounds); err != nil {
			return err
		}
	}
	log.Printf("training on %d samples, %d held out", train.Len(), test.Len())

	callbacks := []net.Callback{net.Logger{Interval: *interval}}
	if *csvLog != "" {
		callbacks = append(callbacks, net.NewCSVLogger(*csvLog, false))
	}
	trainer := net.NewTrainer(network, callbacks...)
	trainer.Schedule = opt.ExponentialDecay{Gamma: *decay}

	for _, cb := range callbacks {
		cb.OnTrainBegin(network)
	}
	var es *net.EarlyStopping
	if *patience > 0 {
		es = net.NewEarlyStopping(*patience, 0)
	}
	for e := 0; e < *epochs; e++ {
		l, err := trainer.TrainOneEpoch(train.Samples, train.Labels, *lr)
		if err != nil {
			return err
		}
		if es != nil && es.Observe(l) {
			log.Printf("early stopping at epoch %d: loss %.6f did not improve for %d epochs", e, l, *patience)
			break
		}
	}
	for _, cb := range callbacks {
		cb.OnTrainEnd(network)
	}

	if test.Len() > 0 {
		m, err := network.Evaluate(test.Samples, test.Labels)
		if err != nil {
			return err
		}
		log.Printf("held out: loss %.6f, accuracy %.2f%%", m.Loss, m.Accuracy*100)
	}

	if err := network.Save(*out); err != nil {
		return err
	}
	log.Printf("model saved to %s", *out)
	return nil
}

func runPredict(args []string) error {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	var data dataFlags
	data.register(fs)
	modelPath := fs.String("model", "model.gob", "saved model `file`")
	fs.Parse(args)

	network, err := net.Load(*modelPath)
	if err != nil {
		return err
	}
	ds, err := data.load()
	if err != nil {
		return err
	}
	if data.normalize {
		bounds, err := net.LoadMinMax(minMaxPath(*modelPath))
		if err != nil {
			return fmt.Errorf("-normalize needs the bounds saved by train: %w", err)
		}
		if err := bounds.Apply(ds.Samples); err != nil {
			return err
		}
	}

	for i, x := range ds.Samples {
		out, idx, err := network.Predict(x)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		fmt.Printf("%d\t%d\t%s\n", i, idx, formatFloats(out))
	}

	if data.labels != "" {
		m, err := network.Evaluate(ds.Samples, ds.Labels)
		if err != nil {
			return err
		}
		log.Printf("loss %.6f, accuracy %.2f%%", m.Loss, m.Accuracy*100)
	}
	return nil
}

// minMaxPath names the normalization bounds stored next to a model.
func minMaxPath(model string) string {
	return model + ".minmax.json"
}

func flagConfig(layers, acts, lossName string, seed int64) (net.Config, error) {
	cfg := net.Config{Seed: seed}

	widths, err := parseInts(layers)
	if err != nil {
		return cfg, fmt.Errorf("-layers: %v", err)
	}
	cfg.LayerWidths = widths

	for _, name := range splitList(acts) {
		id, err := activations.ParseID(name)
		if err != nil {
			return cfg, err
		}
		cfg.Activations = append(cfg.Activations, id)
	}

	cfg.Loss, err = loss.ParseID(lossName)
	return cfg, err
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, f := range splitList(s) {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func formatFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(f, 'f', 4, 64)
	}
	return strings.Join(parts, " ")
}
