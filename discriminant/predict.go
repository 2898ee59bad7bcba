package discriminant

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/statlearn/core/parallel"
	"github.com/YuminosukeSato/statlearn/linalg"
	"github.com/YuminosukeSato/statlearn/metrics"
	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// precision is the inverse covariance of one class together with
// ½ log det Σ.
type precision struct {
	inv        *mat.Dense
	halfLogDet float64
}

func (m *Model) precisions(op string) ([]precision, error) {
	out := make([]precision, len(m.Covariances))
	for i, cov := range m.Covariances {
		name := "pooled covariance"
		if m.Mode == QDA {
			name = fmt.Sprintf("covariance of class %v", m.Classes[i])
		}

		logDet, sign, err := linalg.LogDeterminant(cov)
		if err != nil {
			return nil, err
		}
		if sign <= 0 {
			det, _ := linalg.Determinant(cov)
			return nil, errors.NewSingularMatrixError(op, name, det)
		}
		inv, err := linalg.Invert(cov, name)
		if err != nil {
			return nil, err
		}
		out[i] = precision{inv: inv, halfLogDet: 0.5 * logDet}
	}
	return out, nil
}

// LogScores returns the N×k matrix of log-density scores
// −½ (x − μ_c)ᵗ Σ_c⁻¹ (x − μ_c) − ½ log det Σ_c. Column c belongs to
// Classes[c]. The (2π)^(d/2) factor is omitted since it is common to every
// class.
func (m *Model) LogScores(X mat.Matrix) (scores *mat.Dense, err error) {
	const op = "Model.LogScores"
	defer errors.Recover(&err, op)

	n, d := X.Dims()
	if n == 0 {
		return nil, errors.NewEmptyDataError(op)
	}
	if d != m.NumFeatures() {
		return nil, errors.NewDimensionError(op, m.NumFeatures(), d, 1)
	}
	precs, err := m.precisions(op)
	if err != nil {
		return nil, err
	}

	k := len(m.Classes)
	means := make([]*mat.VecDense, k)
	for c := range means {
		means[c] = linalg.ColumnOf(m.Means, c)
	}

	scores = mat.NewDense(n, k, nil)
	parallel.ParallelizeWithThreshold(n, parallel.DefaultThreshold, func(start, end int) {
		diff := mat.NewVecDense(d, nil)
		for i := start; i < end; i++ {
			for c := 0; c < k; c++ {
				p := precs[0]
				if m.Mode == QDA {
					p = precs[c]
				}
				for j := 0; j < d; j++ {
					diff.SetVec(j, X.At(i, j)-means[c].AtVec(j))
				}
				q := mat.Inner(diff, p.inv, diff)
				scores.Set(i, c, -0.5*q-p.halfLogDet)
			}
		}
	})
	return scores, nil
}

// Predict returns the predicted label of every row of X. Ties go to the
// class with the lowest index in Classes.
func (m *Model) Predict(X mat.Matrix) (*mat.VecDense, error) {
	scores, err := m.LogScores(X)
	if err != nil {
		return nil, err
	}
	n, k := scores.Dims()
	labels := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		best := 0
		for c := 1; c < k; c++ {
			if scores.At(i, c) > scores.At(i, best) {
				best = c
			}
		}
		labels.SetVec(i, m.Classes[best])
	}
	return labels, nil
}

// Test predicts Xtest and returns the fraction of rows whose prediction
// equals ytest together with the predicted labels. ytest may hold
// placeholder values when only the labels are of interest.
func (m *Model) Test(Xtest, ytest mat.Matrix) (acc float64, labels *mat.VecDense, err error) {
	const op = "Model.Test"
	n, _ := Xtest.Dims()
	if ry, _ := ytest.Dims(); ry != n {
		return 0, nil, errors.NewDimensionError(op, n, ry, 0)
	}
	truth, err := linalg.ColumnVector(op, ytest)
	if err != nil {
		return 0, nil, err
	}
	labels, err = m.Predict(Xtest)
	if err != nil {
		return 0, nil, err
	}
	acc, err = metrics.Accuracy(truth, labels)
	if err != nil {
		return 0, nil, err
	}
	return acc, labels, nil
}

// PredictProba returns the N×k matrix of class posteriors under equal class
// priors.
func (m *Model) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	scores, err := m.LogScores(X)
	if err != nil {
		return nil, err
	}
	n, k := scores.Dims()
	proba := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		row := scores.RawRowView(i)
		norm := floats.LogSumExp(row)
		for c := 0; c < k; c++ {
			proba.Set(i, c, math.Exp(row[c]-norm))
		}
	}
	return proba, nil
}
