package model

import (
	"gonum.org/v1/gonum/mat"
)

// Scorer computes a goodness-of-fit score on held-out data: R² for
// regressors, accuracy for classifiers.
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Estimator is anything that can be fitted and reports whether it has been.
type Estimator interface {
	Fitter
	IsFitted() bool
}

// Regressor combines interfaces for regression models.
type Regressor interface {
	Estimator
	Predictor
	Scorer
}

// Classifier combines interfaces for classification models.
type Classifier interface {
	Estimator
	Predictor
	Scorer

	// PredictProba returns an N×k matrix of class posteriors; column c
	// belongs to Classes()[c].
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the distinct training labels in ascending order.
	Classes() []float64
}

// WeightExporter is implemented by linear models whose parameters fit in a
// ModelWeights record.
type WeightExporter interface {
	ExportWeights() (*ModelWeights, error)
	ImportWeights(weights *ModelWeights) error
}
