package experiment

import (
	"github.com/YuminosukeSato/statlearn/dataset"
	"github.com/YuminosukeSato/statlearn/linalg"
	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/preprocessing"
	"gonum.org/v1/gonum/mat"
)

// classBlobs are five 2-D classes inside the default decision grid, with
// unequal covariances so LDA and QDA boundaries differ.
func classBlobs(perClass int) []dataset.Blob {
	return []dataset.Blob{
		{Label: 1, Mean: []float64{1, 1}, Cov: mat.NewSymDense(2, []float64{1.5, 0, 0, 1.5}), N: perClass},
		{Label: 2, Mean: []float64{5, 12}, Cov: mat.NewSymDense(2, []float64{2, 0.8, 0.8, 1}), N: perClass},
		{Label: 3, Mean: []float64{12, 4}, Cov: mat.NewSymDense(2, []float64{1, -0.5, -0.5, 2}), N: perClass},
		{Label: 4, Mean: []float64{15, 15}, Cov: mat.NewSymDense(2, []float64{3, 0, 0, 1}), N: perClass},
		{Label: 5, Mean: []float64{8, 8}, Cov: mat.NewSymDense(2, []float64{1, 0, 0, 3}), N: perClass},
	}
}

func (r *Runner) classificationData() (train, test *dataset.Dataset, err error) {
	c := r.cfg.Classification
	if c.TrainCSV != "" && c.TestCSV != "" {
		return loadPair(c.TrainCSV, c.TestCSV, c.Header)
	}
	blobs := classBlobs(c.SamplesPerClass)
	if train, err = dataset.GaussianBlobs(blobs, r.cfg.Seed); err != nil {
		return nil, nil, err
	}
	if test, err = dataset.GaussianBlobs(blobs, r.cfg.Seed+100); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

// regressionData returns train and test sets. Synthetic targets are linear
// in every feature plus a cubic term in the polynomial feature, so the
// degree sweep has a curve to find.
func (r *Runner) regressionData() (train, test *dataset.Dataset, err error) {
	c := r.cfg.Regression
	if c.TrainCSV != "" && c.TestCSV != "" {
		return loadPair(c.TrainCSV, c.TestCSV, c.Header)
	}
	if c.PolyFeature >= c.Features {
		return nil, nil, errors.NewDimensionError("experiment.regressionData", c.Features, c.PolyFeature+1, 1)
	}

	w := make([]float64, c.Features)
	for j := range w {
		w[j] = float64(j%3+1) * 0.5
		if j%2 == 1 {
			w[j] = -w[j]
		}
	}
	if train, err = r.synthRegression(c.TrainSamples, w, r.cfg.Seed+200); err != nil {
		return nil, nil, err
	}
	if test, err = r.synthRegression(c.TestSamples, w, r.cfg.Seed+300); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

func (r *Runner) synthRegression(n int, w []float64, seed uint64) (*dataset.Dataset, error) {
	c := r.cfg.Regression
	X := dataset.UniformDesign(n, len(w), -1, 1, seed)
	y, err := dataset.LinearTargets(X, w, c.Noise, seed+1)
	if err != nil {
		return nil, err
	}

	// y += 1.5x² − 2x³ on the polynomial feature
	powers, err := preprocessing.MapNonLinear(linalg.ColumnOf(X, c.PolyFeature), 3)
	if err != nil {
		return nil, err
	}
	curve, err := dataset.LinearTargets(powers, []float64{0, 0, 1.5, -2}, 0, 0)
	if err != nil {
		return nil, err
	}
	y.Add(y, curve)
	return &dataset.Dataset{X: X, Y: y}, nil
}

func loadPair(trainPath, testPath string, header bool) (train, test *dataset.Dataset, err error) {
	opts := dataset.DefaultCSVOptions()
	opts.Header = header
	if train, err = dataset.LoadCSVFile(trainPath, opts); err != nil {
		return nil, nil, err
	}
	if test, err = dataset.LoadCSVFile(testPath, opts); err != nil {
		return nil, nil, err
	}
	_, dTrain := train.Dims()
	if _, dTest := test.Dims(); dTest != dTrain {
		return nil, nil, errors.NewDimensionError("experiment.loadPair", dTrain, dTest, 1)
	}
	return train, test, nil
}

// decisionGrid lays out Points×Points rows covering [Min, Max]² with the
// first coordinate varying fastest.
func decisionGrid(g GridConfig) *mat.Dense {
	axis := LambdaGrid{Min: g.Min, Max: g.Max, Points: g.Points}.Values()
	grid := mat.NewDense(g.Points*g.Points, 2, nil)
	for i, b := range axis {
		for j, a := range axis {
			row := i*g.Points + j
			grid.Set(row, 0, a)
			grid.Set(row, 1, b)
		}
	}
	return grid
}
