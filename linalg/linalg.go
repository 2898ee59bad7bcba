// Package linalg provides the named matrix operations used by the
// estimators. Each operation states its failure mode explicitly instead of
// relying on implicit broadcasting or inversion semantics.
package linalg

import (
	"math"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Invert returns the inverse of the square matrix a. name identifies a in
// the returned error (e.g. "XᵗX", "covariance of class 2").
//
// An exactly singular matrix yields a SingularMatrixError. A matrix whose
// condition number exceeds gonum's tolerance is still inverted and an
// IllConditionedWarning is emitted through errors.Warn.
func Invert(a mat.Matrix, name string) (*mat.Dense, error) {
	r, c := a.Dims()
	if r != c {
		return nil, errors.NewDimensionError("linalg.Invert", r, c, 1)
	}
	if r == 0 {
		return nil, errors.NewValueError("linalg.Invert", "empty matrix")
	}

	var inv mat.Dense
	err := inv.Inverse(a)
	if err != nil {
		cond, ok := err.(mat.Condition)
		if !ok {
			return nil, errors.Wrap(err, "linalg.Invert")
		}
		if math.IsInf(float64(cond), 1) {
			return nil, errors.NewSingularMatrixError("linalg.Invert", name, mat.Det(a))
		}
		errors.Warn(errors.NewIllConditionedWarning("linalg.Invert("+name+")", float64(cond)))
	}
	if err := errors.CheckMatrix("linalg.Invert", &inv); err != nil {
		return nil, errors.NewSingularMatrixError("linalg.Invert", name, math.NaN())
	}
	return &inv, nil
}

// Determinant returns det(a) for a square matrix.
func Determinant(a mat.Matrix) (float64, error) {
	r, c := a.Dims()
	if r != c {
		return 0, errors.NewDimensionError("linalg.Determinant", r, c, 1)
	}
	return mat.Det(a), nil
}

// LogDeterminant returns log|det(a)| and the sign of det(a). The sign is 0
// when a is singular.
func LogDeterminant(a mat.Matrix) (logAbs, sign float64, err error) {
	r, c := a.Dims()
	if r != c {
		return 0, 0, errors.NewDimensionError("linalg.LogDeterminant", r, c, 1)
	}
	logAbs, sign = mat.LogDet(a)
	if math.IsInf(logAbs, -1) || math.IsNaN(logAbs) {
		sign = 0
	}
	return logAbs, sign, nil
}

// ColumnOf copies column j of m into a new vector.
func ColumnOf(m mat.Matrix, j int) *mat.VecDense {
	r, _ := m.Dims()
	return mat.NewVecDense(r, mat.Col(nil, j, m))
}

// ColumnVector interprets y as a column vector. A mat.Vector is returned as
// a copy; any other matrix must have exactly one column.
func ColumnVector(op string, y mat.Matrix) (*mat.VecDense, error) {
	if v, ok := y.(mat.Vector); ok {
		return mat.VecDenseCopyOf(v), nil
	}
	_, c := y.Dims()
	if c != 1 {
		return nil, errors.NewValueError(op, "y must be a column vector (n×1 matrix)")
	}
	return ColumnOf(y, 0), nil
}

// MeanByMask returns the per-feature mean of the rows of X whose label in y
// equals label, together with the number of such rows. The mean is nil when
// no row matches.
func MeanByMask(X mat.Matrix, y mat.Vector, label float64) (*mat.VecDense, int) {
	n, d := X.Dims()
	weights := make([]float64, n)
	count := 0
	for i := 0; i < n; i++ {
		if y.AtVec(i) == label {
			weights[i] = 1
			count++
		}
	}
	if count == 0 {
		return nil, 0
	}

	mean := mat.NewVecDense(d, nil)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, X)
		mean.SetVec(j, stat.Mean(col, weights))
	}
	return mean, count
}

// RowsByMask returns a copy of the rows of X whose label in y equals label.
// It returns nil when no row matches.
func RowsByMask(X mat.Matrix, y mat.Vector, label float64) *mat.Dense {
	n, d := X.Dims()
	var data []float64
	rows := 0
	for i := 0; i < n; i++ {
		if y.AtVec(i) != label {
			continue
		}
		for j := 0; j < d; j++ {
			data = append(data, X.At(i, j))
		}
		rows++
	}
	if rows == 0 {
		return nil
	}
	return mat.NewDense(rows, d, data)
}

// Covariance returns the d×d sample covariance of the rows of X with N−1
// normalization. Fewer than two rows give an all-zero matrix, which later
// surfaces as a singular covariance.
func Covariance(X mat.Matrix) *mat.SymDense {
	n, d := X.Dims()
	if n < 2 {
		return mat.NewSymDense(d, nil)
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, X, nil)
	return &cov
}

// Gram returns XᵗX.
func Gram(X mat.Matrix) *mat.SymDense {
	_, d := X.Dims()
	g := mat.NewSymDense(d, nil)
	g.SymOuterK(1, X.T())
	return g
}

// CrossProduct returns Xᵗy. y must have as many entries as X has rows.
func CrossProduct(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	n, d := X.Dims()
	if y.Len() != n {
		return nil, errors.NewDimensionError("linalg.CrossProduct", n, y.Len(), 0)
	}
	xty := mat.NewVecDense(d, nil)
	xty.MulVec(X.T(), y)
	return xty, nil
}

// AddDiagonal returns a + λI as a new symmetric matrix.
func AddDiagonal(a mat.Symmetric, lambda float64) *mat.SymDense {
	out := mat.NewSymDense(a.SymmetricDim(), nil)
	out.CopySym(a)
	if lambda == 0 {
		return out
	}
	for i := 0; i < out.SymmetricDim(); i++ {
		out.SetSym(i, i, out.At(i, i)+lambda)
	}
	return out
}
