package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// CSVOptions controls LoadCSV.
type CSVOptions struct {
	// Header marks the first record as column names.
	Header bool
	// Target is the index of the target column. Negative values count from
	// the end, -1 being the last column.
	Target int
	// Comma is the field delimiter; zero means ','.
	Comma rune
}

// DefaultCSVOptions reads a headerless file with the target in the last
// column.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Target: -1}
}

// LoadCSVFile opens path and calls LoadCSV.
func LoadCSVFile(path string, opts CSVOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()
	return LoadCSV(f, opts)
}

// LoadCSV reads a numeric CSV. Every field must parse as a float64; blank
// lines are skipped by encoding/csv and missing values are rejected.
func LoadCSV(r io.Reader, opts CSVOptions) (*Dataset, error) {
	reader := csv.NewReader(r)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "dataset: read csv")
	}

	var header []string
	if opts.Header && len(records) > 0 {
		header = records[0]
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, errors.NewEmptyDataError("dataset.LoadCSV")
	}

	cols := len(records[0])
	if cols < 2 {
		return nil, errors.NewValueError("dataset.LoadCSV", "need at least one feature column and one target column")
	}
	target := opts.Target
	if target < 0 {
		target += cols
	}
	if target < 0 || target >= cols {
		return nil, errors.NewInvalidHyperparameterError("target", "column index out of range", opts.Target)
	}

	n, d := len(records), cols-1
	X := mat.NewDense(n, d, nil)
	Y := mat.NewDense(n, 1, nil)
	for i, rec := range records {
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "dataset: row %d column %d", i+1, j+1)
			}
			switch {
			case j == target:
				Y.Set(i, 0, v)
			case j < target:
				X.Set(i, j, v)
			default:
				X.Set(i, j-1, v)
			}
		}
	}

	var features []string
	if header != nil {
		features = make([]string, 0, d)
		for j, name := range header {
			if j != target {
				features = append(features, name)
			}
		}
	}
	return &Dataset{X: X, Y: Y, Features: features}, nil
}
