package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// PanicError is an error recovered from a panic, typically a gonum shape
// panic raised inside a public entry point.
type PanicError struct {
	Operation  string
	PanicValue interface{}
	StackTrace string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("statlearn: panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap returns the panic value when it was itself an error, so
// errors.Is(err, mat.ErrShape) works on recovered gonum panics.
func (e *PanicError) Unwrap() error {
	err, _ := e.PanicValue.(error)
	return err
}

// Is reports gonum shape panics as ErrDimensionMismatch.
func (e *PanicError) Is(target error) bool {
	if target != ErrDimensionMismatch {
		return false
	}
	switch e.PanicValue {
	case mat.ErrShape, mat.ErrSquare:
		return true
	}
	return false
}

// String includes the captured stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("%s\nStack trace:\n%s", e.Error(), e.StackTrace)
}

// NewPanicError creates a PanicError capturing the current stack.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		Operation:  operation,
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
	}
}

// Recover converts a panic into an error assigned to *err. Use it with defer:
//
//	func Learn(X, y mat.Matrix, mode Mode) (m *Model, err error) {
//	    defer errors.Recover(&err, "Learn")
//	    ...
//	}
//
// An error already stored in *err is kept as the cause.
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = errors.Wrapf(*err, "panic in %s: %v", operation, r)
		return
	}
	*err = NewPanicError(operation, r)
}

// SafeExecute runs fn and converts a panic into a PanicError.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
