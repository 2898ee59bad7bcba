// Package model defines the estimator interfaces shared by the discriminant,
// linear and preprocessing packages, plus fitted-state tracking and model
// persistence.
package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit learns parameters from X (N×d) and y (N×1).
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict returns an N×1 matrix of predictions for X.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
