// Package discriminant implements Gaussian discriminant analysis.
//
// Learn estimates one mean per class and either a single pooled covariance
// (LDA) or one covariance per class (QDA). A Model scores a row x against
// class c with
//
//	−½ (x − μ_c)ᵗ Σ_c⁻¹ (x − μ_c) − ½ log det Σ_c
//
// and predicts the class with the highest score. Scores are kept in log
// space, so classes far from x never underflow to zero.
package discriminant

import (
	"fmt"
	"slices"
	"strings"

	"github.com/YuminosukeSato/statlearn/linalg"
	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Mode selects how class covariances are estimated.
type Mode int

const (
	// LDA shares one covariance across all classes.
	LDA Mode = iota
	// QDA estimates one covariance per class.
	QDA
)

func (m Mode) String() string {
	switch m {
	case LDA:
		return "LDA"
	case QDA:
		return "QDA"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts "lda" or "qda" (any case) into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "lda":
		return LDA, nil
	case "qda":
		return QDA, nil
	}
	return 0, errors.NewInvalidHyperparameterError("mode", "must be lda or qda", s)
}

// Model holds fitted discriminant parameters. It is immutable after Learn
// returns and safe for concurrent use.
type Model struct {
	// Classes are the distinct training labels in ascending order.
	Classes []float64
	// Means is d×k; column c is the mean of class Classes[c].
	Means *mat.Dense
	// Covariances has one entry for LDA and k entries for QDA.
	Covariances []*mat.SymDense
	Mode        Mode
}

// NumFeatures returns d.
func (m *Model) NumFeatures() int {
	d, _ := m.Means.Dims()
	return d
}

// Covariance returns the covariance used for class index c.
func (m *Model) Covariance(c int) *mat.SymDense {
	if m.Mode == LDA {
		return m.Covariances[0]
	}
	return m.Covariances[c]
}

// LearnLDA is Learn(X, y, LDA).
func LearnLDA(X, y mat.Matrix) (*Model, error) {
	return Learn(X, y, LDA)
}

// LearnQDA is Learn(X, y, QDA).
func LearnQDA(X, y mat.Matrix) (*Model, error) {
	return Learn(X, y, QDA)
}

// Learn estimates class means and covariances from X (N×d) and the N×1
// label column y.
//
// LDA pools all rows of X into one covariance. QDA needs at least d+1 rows
// per class for a full-rank covariance; a class with fewer rows produces a
// DegenerateClassWarning, and the resulting model fails at prediction time
// with a SingularMatrixError.
func Learn(X, y mat.Matrix, mode Mode) (m *Model, err error) {
	op := "Learn" + mode.String()
	defer errors.Recover(&err, op)

	if mode != LDA && mode != QDA {
		return nil, errors.NewInvalidHyperparameterError("mode", "must be LDA or QDA", mode)
	}
	n, d := X.Dims()
	if n == 0 || d == 0 {
		return nil, errors.NewEmptyDataError(op)
	}
	if ry, _ := y.Dims(); ry != n {
		return nil, errors.NewDimensionError(op, n, ry, 0)
	}
	labels, err := linalg.ColumnVector(op, y)
	if err != nil {
		return nil, err
	}
	if errors.CheckMatrix(op, labels) != nil {
		return nil, errors.NewValueError(op, "labels must be finite")
	}

	classes := uniqueSorted(labels)
	k := len(classes)

	means := mat.NewDense(d, k, nil)
	counts := make([]int, k)
	for c, label := range classes {
		mu, count := linalg.MeanByMask(X, labels, label)
		means.SetCol(c, mu.RawVector().Data)
		counts[c] = count
	}

	var covs []*mat.SymDense
	switch mode {
	case LDA:
		covs = []*mat.SymDense{linalg.Covariance(X)}
	case QDA:
		covs = make([]*mat.SymDense, k)
		for c, label := range classes {
			if counts[c] < d+1 {
				errors.Warn(errors.NewDegenerateClassWarning(label, counts[c], d))
			}
			covs[c] = linalg.Covariance(linalg.RowsByMask(X, labels, label))
		}
	}

	return &Model{
		Classes:     classes,
		Means:       means,
		Covariances: covs,
		Mode:        mode,
	}, nil
}

func uniqueSorted(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
