package net

import (
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"strconv"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/nnerr"
	"github.com/pkg/errors"
)

// Dataset is a collection of feature vectors and their label vectors.
type Dataset struct {
	Samples [][]float64
	Labels  [][]float64
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Samples)
}

// LoadCSV loads data from a CSV file.
// labelCols specifies the indices of columns to be used as labels, in label
// order; all other columns are features, in file order.
// hasHeader skips the first line if true.
func LoadCSV(filename string, labelCols []int, hasHeader bool) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv")
	}

	if len(records) == 0 {
		return nil, errors.Errorf("csv file %s is empty", filename)
	}

	startRow := 0
	if hasHeader {
		startRow = 1
	}

	if len(records) <= startRow {
		return nil, errors.Errorf("csv file %s has no data rows", filename)
	}

	numCols := len(records[0])
	labelPos := make(map[int]int, len(labelCols))
	for pos, col := range labelCols {
		if col < 0 || col >= numCols {
			return nil, errors.Errorf("label column %d out of range [0, %d)", col, numCols)
		}
		if _, dup := labelPos[col]; dup {
			return nil, errors.Errorf("label column %d listed twice", col)
		}
		labelPos[col] = pos
	}

	numSamples := len(records) - startRow
	samples := make([][]float64, numSamples)
	labels := make([][]float64, numSamples)

	for i := startRow; i < len(records); i++ {
		record := records[i]
		if len(record) != numCols {
			return nil, errors.Errorf("inconsistent number of columns at row %d", i)
		}

		sampleRow := make([]float64, 0, numCols-len(labelCols))
		labelRow := make([]float64, len(labelCols))

		for j, valStr := range record {
			val, err := strconv.ParseFloat(valStr, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse value at row %d, col %d", i, j)
			}

			if pos, ok := labelPos[j]; ok {
				labelRow[pos] = val
			} else {
				sampleRow = append(sampleRow, val)
			}
		}

		samples[i-startRow] = sampleRow
		labels[i-startRow] = labelRow
	}

	return &Dataset{
		Samples: samples,
		Labels:  labels,
	}, nil
}

// MinMax holds per-feature bounds for min-max normalization. Bounds fitted
// on a training set are saved next to the model so that later inputs are
// scaled the same way.
type MinMax struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

// FitMinMax computes the per-feature bounds of samples.
func FitMinMax(samples [][]float64) (MinMax, error) {
	if len(samples) == 0 {
		return MinMax{}, nnerr.Numeric("fit min-max", "empty dataset")
	}

	numFeatures := len(samples[0])
	m := MinMax{
		Min: make([]float64, numFeatures),
		Max: make([]float64, numFeatures),
	}
	copy(m.Min, samples[0])
	copy(m.Max, samples[0])

	for i, sample := range samples {
		if len(sample) != numFeatures {
			return MinMax{}, errors.Wrapf(nnerr.Dimension("fit min-max", numFeatures, len(sample)), "row %d", i)
		}
		for j, val := range sample {
			m.Min[j] = math.Min(m.Min[j], val)
			m.Max[j] = math.Max(m.Max[j], val)
		}
	}
	return m, nil
}

// Apply scales samples in place. Features constant in the fitted data
// become 0; values outside the fitted range fall outside [0, 1].
func (m MinMax) Apply(samples [][]float64) error {
	if len(m.Min) != len(m.Max) {
		return nnerr.Dimension("min-max bounds", len(m.Min), len(m.Max))
	}
	for i, sample := range samples {
		if len(sample) != len(m.Min) {
			return errors.Wrapf(nnerr.Dimension("apply min-max", len(m.Min), len(sample)), "row %d", i)
		}
	}

	for _, sample := range samples {
		for j := range sample {
			diff := m.Max[j] - m.Min[j]
			if diff != 0 {
				sample[j] = (sample[j] - m.Min[j]) / diff
			} else {
				sample[j] = 0
			}
		}
	}
	return nil
}

// SaveMinMax writes m to filename as JSON.
func SaveMinMax(filename string, m MinMax) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode min-max bounds")
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write min-max bounds")
	}
	return nil
}

// LoadMinMax reads bounds written by SaveMinMax.
func LoadMinMax(filename string) (MinMax, error) {
	var m MinMax
	data, err := os.ReadFile(filename)
	if err != nil {
		return m, errors.Wrap(err, "failed to read min-max bounds")
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, errors.Wrapf(err, "failed to parse min-max bounds %s", filename)
	}
	if len(m.Min) != len(m.Max) {
		return m, nnerr.Dimension("min-max bounds", len(m.Min), len(m.Max))
	}
	return m, nil
}

// Normalize performs min-max normalization on the samples, in place, and
// returns the fitted bounds. An empty dataset is left alone.
func (d *Dataset) Normalize() (MinMax, error) {
	if len(d.Samples) == 0 {
		return MinMax{}, nil
	}
	m, err := FitMinMax(d.Samples)
	if err != nil {
		return MinMax{}, err
	}
	return m, m.Apply(d.Samples)
}

// Split splits the dataset into two based on the given ratio (0.0 to 1.0).
// Returns two Datasets (train, test) sharing the receiver's rows.
func (d *Dataset) Split(ratio float64) (*Dataset, *Dataset) {
	if ratio <= 0 {
		return &Dataset{}, d
	}
	if ratio >= 1 {
		return d, &Dataset{}
	}

	splitIdx := int(float64(len(d.Samples)) * ratio)

	train := &Dataset{
		Samples: d.Samples[:splitIdx],
		Labels:  d.Labels[:splitIdx],
	}

	test := &Dataset{
		Samples: d.Samples[splitIdx:],
		Labels:  d.Labels[splitIdx:],
	}

	return train, test
}

// OneHot replaces single-column class labels by one-hot vectors of width
// classes. Every label must be a whole number in [0, classes).
func (d *Dataset) OneHot(classes int) error {
	if classes <= 0 {
		return nnerr.Configuration("classes", "must be positive, got %d", classes)
	}

	encoded := make([][]float64, len(d.Labels))
	for i, label := range d.Labels {
		if len(label) != 1 {
			return errors.Wrapf(nnerr.Dimension("one-hot label", 1, len(label)), "row %d", i)
		}
		class := label[0]
		if class != math.Trunc(class) || class < 0 || int(class) >= classes {
			return nnerr.Numeric("one-hot", "row %d: label %v is not a class in [0, %d)", i, class, classes)
		}
		encoded[i] = make([]float64, classes)
		encoded[i][int(class)] = 1
	}
	d.Labels = encoded
	return nil
}
