// Package dataset loads and generates the numeric training sets consumed by
// the estimators.
package dataset

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Dataset is a design matrix X (N×d) with its N×1 target column Y.
type Dataset struct {
	X *mat.Dense
	Y *mat.Dense
	// Features holds the column names when they are known.
	Features []string
}

// Dims returns the number of samples and features.
func (d *Dataset) Dims() (samples, features int) {
	return d.X.Dims()
}

// Split shuffles the rows with a PCG source seeded by seed and returns the
// first (1−testFraction)·N rows as train and the rest as test.
func Split(ds *Dataset, testFraction float64, seed uint64) (train, test *Dataset, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.NewInvalidHyperparameterError("test_fraction", "must be in (0, 1)", testFraction)
	}
	n, _ := ds.Dims()
	if n < 2 {
		return nil, nil, errors.NewValueError("dataset.Split", "need at least two samples")
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	idx := rng.Perm(n)

	nTest := int(float64(n) * testFraction)
	if nTest == 0 {
		nTest = 1
	}
	train = subset(ds, idx[:n-nTest])
	test = subset(ds, idx[n-nTest:])
	return train, test, nil
}

func subset(ds *Dataset, rows []int) *Dataset {
	_, d := ds.X.Dims()
	X := mat.NewDense(len(rows), d, nil)
	Y := mat.NewDense(len(rows), 1, nil)
	for i, r := range rows {
		X.SetRow(i, ds.X.RawRowView(r))
		Y.Set(i, 0, ds.Y.At(r, 0))
	}
	return &Dataset{X: X, Y: Y, Features: ds.Features}
}
