// Package statlearn provides classical statistical learning models for Go:
// Gaussian discriminant analysis, least squares and ridge regression, and
// the evaluation and feature-mapping helpers around them.
//
// All models work on gonum matrices. The low-level functions return plain
// parameter values; the estimator types wrap them in the Fit/Predict/Score
// interfaces of core/model.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/statlearn/linear"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	    y := mat.NewDense(4, 1, []float64{2.1, 3.9, 6.2, 7.8})
//
//	    w, err := linear.LearnRidge(X, y, 0.1)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    mse, err := linear.MSE(w, X, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(w.AtVec(0), mse)
//	}
//
// # Packages
//
//   - discriminant: LDA and QDA (LearnLDA, LearnQDA, Predict, Test, Classifier)
//   - linear: OLS, closed-form ridge, ridge by conjugate gradient, the ridge
//     objective, and the LinearRegression / Ridge estimators
//   - preprocessing: MapNonLinear polynomial expansion and PolynomialFeatures
//   - metrics: MSE, RMSE, R², accuracy
//   - linalg: named matrix operations shared by the models
//   - dataset: CSV loading and synthetic data
//   - core/model: estimator interfaces, fit state and persistence
//   - core/parallel: row-chunked parallel loops
//   - pkg/errors, pkg/log: structured errors, warnings and logging
//
// The cmd/experiment command runs the full classification and regression
// study from a YAML config and writes a report and figures.
//
// # Errors
//
// Every failure is a typed error from pkg/errors that also matches a
// sentinel with errors.Is, e.g. ErrSingularMatrix for a non-invertible
// XᵗX. Conditions that do not stop a computation, such as an
// ill-conditioned inverse or a CG run that hit its iteration cap, are
// reported through errors.Warn.
package statlearn
