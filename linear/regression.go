// Package linear implements least-squares regression: ordinary least
// squares, closed-form ridge regression and ridge regression by conjugate
// gradient.
package linear

import (
	"math"

	"github.com/YuminosukeSato/statlearn/linalg"
	"github.com/YuminosukeSato/statlearn/metrics"
	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LearnOLS は正規方程式 w = (XᵗX)⁻¹ Xᵗy で重みを求める
// X に切片列は追加しない。必要なら呼び出し側で preprocessing.AddIntercept を使う。
func LearnOLS(X, y mat.Matrix) (*mat.VecDense, error) {
	return learnRidge("LearnOLS", X, y, 0)
}

// LearnRidge は w = (λI + XᵗX)⁻¹ Xᵗy で重みを求める
// λ = 0 のとき LearnOLS と一致する。
func LearnRidge(X, y mat.Matrix, lambda float64) (*mat.VecDense, error) {
	return learnRidge("LearnRidge", X, y, lambda)
}

func learnRidge(op string, X, y mat.Matrix, lambda float64) (w *mat.VecDense, err error) {
	defer errors.Recover(&err, op)

	if err := checkLambda(lambda); err != nil {
		return nil, err
	}
	yv, err := checkXY(op, X, y)
	if err != nil {
		return nil, err
	}

	name := "XᵗX"
	if lambda != 0 {
		name = "λI + XᵗX"
	}
	inv, err := linalg.Invert(linalg.AddDiagonal(linalg.Gram(X), lambda), name)
	if err != nil {
		return nil, err
	}
	xty, err := linalg.CrossProduct(X, yv)
	if err != nil {
		return nil, err
	}

	_, d := X.Dims()
	w = mat.NewVecDense(d, nil)
	w.MulVec(inv, xty)
	return w, nil
}

// MSE は Σ(y − Xw)² / N を返す
func MSE(w mat.Vector, X, y mat.Matrix) (float64, error) {
	const op = "linear.MSE"
	yv, err := checkXY(op, X, y)
	if err != nil {
		return 0, err
	}
	pred, err := predict(op, w, X)
	if err != nil {
		return 0, err
	}
	return metrics.MSE(yv, pred)
}

func predict(op string, w mat.Vector, X mat.Matrix) (*mat.VecDense, error) {
	n, d := X.Dims()
	if w.Len() != d {
		return nil, errors.NewDimensionError(op, w.Len(), d, 1)
	}
	pred := mat.NewVecDense(n, nil)
	pred.MulVec(X, w)
	return pred, nil
}

// checkXY validates a training pair and returns y as a vector.
func checkXY(op string, X, y mat.Matrix) (*mat.VecDense, error) {
	n, d := X.Dims()
	if n == 0 || d == 0 {
		return nil, errors.NewEmptyDataError(op)
	}
	if ry, _ := y.Dims(); ry != n {
		return nil, errors.NewDimensionError(op, n, ry, 0)
	}
	return linalg.ColumnVector(op, y)
}

func checkLambda(lambda float64) error {
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) || lambda < 0 {
		return errors.NewInvalidHyperparameterError("lambda", "must be a finite non-negative number", lambda)
	}
	return nil
}
