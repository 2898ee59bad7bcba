// Package errors provides the error taxonomy and warning system used across statlearn.
//
// Every constructor attaches a stack trace through cockroachdb/errors, and every
// structured error can be matched with Is against one of the package sentinels
// (ErrDimensionMismatch, ErrSingularMatrix, ErrInvalidHyperparameter, ...).
package errors

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("statlearn-Warning: %v\n", w)
	}
	// set by pkg/log to avoid an import cycle
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the library-wide warning handler.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // drop warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink. Passing nil
// restores the plain handler.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning. The zerolog sink wins over the plain handler when set.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warnings
//
// ===========================================================================

// ConvergenceWarning is raised when an iterative solver stops at its iteration
// cap before meeting its convergence criterion.
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing max_iter.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning creates a ConvergenceWarning.
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// DegenerateClassWarning is raised when a class has too few samples for a
// full-rank covariance estimate (fewer than features+1).
type DegenerateClassWarning struct {
	Class    float64
	Samples  int
	Features int
}

func (w *DegenerateClassWarning) Error() string {
	return fmt.Sprintf("class %g has %d samples for %d features; its covariance is rank deficient", w.Class, w.Samples, w.Features)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *DegenerateClassWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("class", w.Class).
		Int("samples", w.Samples).
		Int("features", w.Features).
		Str("type", "DegenerateClassWarning")
}

// NewDegenerateClassWarning creates a DegenerateClassWarning.
func NewDegenerateClassWarning(class float64, samples, features int) *DegenerateClassWarning {
	return &DegenerateClassWarning{Class: class, Samples: samples, Features: features}
}

// IllConditionedWarning is raised when a matrix was inverted although its
// condition number exceeds the numerical tolerance.
type IllConditionedWarning struct {
	Op        string
	Condition float64
}

func (w *IllConditionedWarning) Error() string {
	return fmt.Sprintf("%s: matrix is ill-conditioned (condition number %.3g); results may be inaccurate", w.Op, w.Condition)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *IllConditionedWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Float64("condition", w.Condition).
		Str("type", "IllConditionedWarning")
}

// NewIllConditionedWarning creates an IllConditionedWarning.
func NewIllConditionedWarning(op string, condition float64) *IllConditionedWarning {
	return &IllConditionedWarning{Op: op, Condition: condition}
}

// ===========================================================================
//
//	Structured errors
//
// ===========================================================================

// NotFittedError is returned when Predict/Transform/Score runs before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("statlearn: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

func (e *NotFittedError) Unwrap() error { return ErrNotFitted }

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError reports a row-count mismatch between X and y, or a feature
// count mismatch between training and test data.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("statlearn: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// SingularMatrixError is returned when a closed-form solve meets a matrix that
// cannot be inverted: XᵗX (or λI+XᵗX) in regression, or a class covariance
// with a non-positive determinant in discriminant analysis.
type SingularMatrixError struct {
	Op     string
	Matrix string
	// Determinant is NaN when it was not computed.
	Determinant float64
}

func (e *SingularMatrixError) Error() string {
	if math.IsNaN(e.Determinant) {
		return fmt.Sprintf("statlearn: %s: %s is singular", e.Op, e.Matrix)
	}
	return fmt.Sprintf("statlearn: %s: %s is singular (determinant %.6g)", e.Op, e.Matrix, e.Determinant)
}

func (e *SingularMatrixError) Unwrap() error { return ErrSingularMatrix }

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *SingularMatrixError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("matrix", e.Matrix).
		Float64("determinant", e.Determinant).
		Str("type", "SingularMatrixError")
}

// NewSingularMatrixError creates a SingularMatrixError with a stack trace.
// Pass math.NaN() as det when the determinant is unknown.
func NewSingularMatrixError(op, matrix string, det float64) error {
	err := &SingularMatrixError{Op: op, Matrix: matrix, Determinant: det}
	return errors.WithStack(err)
}

// InvalidHyperparameterError is returned for out-of-range hyperparameters
// such as a negative ridge weight or a negative polynomial degree.
type InvalidHyperparameterError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *InvalidHyperparameterError) Error() string {
	return fmt.Sprintf("statlearn: invalid hyperparameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

func (e *InvalidHyperparameterError) Unwrap() error { return ErrInvalidHyperparameter }

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *InvalidHyperparameterError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "InvalidHyperparameterError")
}

// NewInvalidHyperparameterError creates an InvalidHyperparameterError with a stack trace.
func NewInvalidHyperparameterError(param, reason string, value interface{}) error {
	err := &InvalidHyperparameterError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError reports an argument with an unusable value, e.g. a y that is not
// a column vector.
type ValueError struct {
	Op      string
	Message string
	// Err is an optional sentinel cause such as ErrEmptyData.
	Err error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("statlearn: %s: %s", e.Op, e.Message)
}

func (e *ValueError) Unwrap() error { return e.Err }

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// NewEmptyDataError creates a ValueError for an input with no rows or
// columns. It matches ErrEmptyData.
func NewEmptyDataError(op string) error {
	err := &ValueError{Op: op, Message: "empty data", Err: ErrEmptyData}
	return errors.WithStack(err)
}

// ModelError is a general estimation failure wrapping a cause.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("statlearn: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("statlearn: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// NumericalInstabilityError reports NaN or Inf values produced during a
// computation such as a loss evaluation.
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
	Iteration int
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("statlearn: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// NewNumericalInstabilityError creates a NumericalInstabilityError with a stack trace.
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
	}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates an error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Sentinels
//
// ===========================================================================

var (
	// ErrEmptyData is returned for inputs with zero rows or columns.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is matched by every SingularMatrixError.
	ErrSingularMatrix = New("singular matrix")

	// ErrDimensionMismatch is matched by every DimensionError.
	ErrDimensionMismatch = New("dimension mismatch")

	// ErrInvalidHyperparameter is matched by every InvalidHyperparameterError.
	ErrInvalidHyperparameter = New("invalid hyperparameter")

	// ErrNotFitted is matched by every NotFittedError.
	ErrNotFitted = New("not fitted")
)
