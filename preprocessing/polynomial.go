// Package preprocessing provides feature transformations applied before
// fitting: polynomial expansion of a single input and intercept columns.
package preprocessing

import (
	"math"

	"github.com/YuminosukeSato/statlearn/core/model"
	"github.com/YuminosukeSato/statlearn/core/parallel"
	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MapNonLinear は1次元入力 x を多項式特徴量 [1, x, x², ..., x^p] に展開する
//
// パラメータ:
//   - x: N×1 の行列または長さ N の mat.Vector
//   - p: 最大次数 (0 以上)
//
// 戻り値:
//   - *mat.Dense: N×(p+1) の行列。列 i は x^i
//   - error: p < 0 の場合 InvalidHyperparameterError、x が複数列の場合 DimensionError
//
// 使用例:
//
//	Xd, err := preprocessing.MapNonLinear(x, 3)
func MapNonLinear(x mat.Matrix, p int) (*mat.Dense, error) {
	if p < 0 {
		return nil, errors.NewInvalidHyperparameterError("p", "polynomial degree must be non-negative", p)
	}
	n, c := x.Dims()
	if c != 1 {
		return nil, errors.NewDimensionError("MapNonLinear", 1, c, 1)
	}
	if n == 0 {
		return nil, errors.NewEmptyDataError("MapNonLinear")
	}

	out := mat.NewDense(n, p+1, nil)
	parallel.ParallelizeWithThreshold(n, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			xi := x.At(i, 0)
			row := out.RawRowView(i)
			row[0] = 1
			for k := 1; k <= p; k++ {
				row[k] = math.Pow(xi, float64(k))
			}
		}
	})
	return out, nil
}

// AddIntercept は X の先頭に全て 1 の列を追加した N×(d+1) 行列を返す
func AddIntercept(X mat.Matrix) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c+1, nil)

	// 並列処理の閾値以下の行数では逐次処理
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				out.Set(i, j+1, X.At(i, j))
			}
		}
	})
	return out
}

// PolynomialFeatures は MapNonLinear を model.Transformer として包む
type PolynomialFeatures struct {
	state  *model.StateManager
	degree int
}

// PolynomialOption configures PolynomialFeatures.
type PolynomialOption func(*PolynomialFeatures)

// WithDegree sets the maximum power (default 2).
func WithDegree(p int) PolynomialOption {
	return func(pf *PolynomialFeatures) {
		pf.degree = p
	}
}

// NewPolynomialFeatures は新しい PolynomialFeatures を作成する
func NewPolynomialFeatures(opts ...PolynomialOption) *PolynomialFeatures {
	pf := &PolynomialFeatures{
		state:  model.NewStateManager(),
		degree: 2,
	}
	for _, opt := range opts {
		opt(pf)
	}
	return pf
}

var _ model.Transformer = (*PolynomialFeatures)(nil)

// Degree returns the configured maximum power.
func (pf *PolynomialFeatures) Degree() int { return pf.degree }

// Fit は入力が1列であることと次数を検証する
func (pf *PolynomialFeatures) Fit(X mat.Matrix) error {
	if pf.degree < 0 {
		return errors.NewInvalidHyperparameterError("degree", "polynomial degree must be non-negative", pf.degree)
	}
	r, c := X.Dims()
	if r == 0 {
		return errors.NewEmptyDataError("PolynomialFeatures.Fit")
	}
	if c != 1 {
		return errors.NewDimensionError("PolynomialFeatures.Fit", 1, c, 1)
	}
	pf.state.SetFitted(c, r)
	return nil
}

// Transform は学習済みの次数で X を展開する
func (pf *PolynomialFeatures) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := pf.state.RequireFitted("PolynomialFeatures", "Transform"); err != nil {
		return nil, err
	}
	return MapNonLinear(X, pf.degree)
}

// FitTransform は Fit と Transform を続けて実行する
func (pf *PolynomialFeatures) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := pf.Fit(X); err != nil {
		return nil, err
	}
	return pf.Transform(X)
}
