// Package metrics provides evaluation scores for regression and
// classification results.
package metrics

import (
	"math"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// rawPair validates two vectors of equal, non-zero length and returns their
// contents as slices.
func rawPair(op string, yTrue, yPred mat.Vector) ([]float64, []float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, nil, errors.NewEmptyDataError(op)
	}
	if yPred.Len() != n {
		return nil, nil, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	a := make([]float64, n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		a[i] = yTrue.AtVec(i)
		b[i] = yPred.AtVec(i)
	}
	return a, b, nil
}

// MSE は平均二乗誤差 Σ(yTrue − yPred)² / N を計算する
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	a, b, err := rawPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	d := floats.Distance(a, b, 2)
	return d * d / float64(len(a)), nil
}

// MSEMatrix は N×1 行列の入力に対して MSE を計算する
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()
	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewEmptyDataError("MSEMatrix")
	}
	if rTrue != rPred {
		return 0, errors.NewDimensionError("MSEMatrix", rTrue, rPred, 0)
	}
	if cTrue != 1 || cPred != 1 {
		return 0, errors.NewValueError("MSEMatrix", "must be a column vector (n×1 matrix)")
	}
	return MSE(mat.NewVecDense(rTrue, mat.Col(nil, 0, yTrue)), mat.NewVecDense(rPred, mat.Col(nil, 0, yPred)))
}

// RMSE は MSE の平方根
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// R2Score は決定係数 1 − RSS/TSS を計算する。
// yTrue が定数の場合はエラーになる。
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	a, b, err := rawPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if len(a) < 2 || stat.Variance(a, nil) == 0 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}
	return stat.RSquaredFrom(b, a, nil), nil
}
