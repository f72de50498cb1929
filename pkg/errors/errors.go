// Package errors defines the error taxonomy used across the medscreen
// analysis pipeline.
//
// Three kinds of failures flow through the pipeline:
//
//   - data errors: missing required columns, empty datasets after cleaning
//   - fitting errors: non-convergence, singular (collinear) design matrices
//   - usage errors: predicting with an unfitted model, dimension mismatches
//
// All constructors return errors that carry a stack trace via
// github.com/cockroachdb/errors and participate in errors.Is / errors.As
// chains. Degenerate evaluation denominators are NOT errors; the metrics
// package reports NaN for those instead.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// errPrefix is prepended to every error message produced by this package.
const errPrefix = "medscreen"

// Sentinel errors for errors.Is comparisons.
var (
	// ErrEmptyData indicates an operation received a dataset with no rows.
	ErrEmptyData = errors.New("empty data")

	// ErrMissingColumn indicates a required input column is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrSingularMatrix indicates a matrix inversion failed, typically
	// because predictors are collinear.
	ErrSingularMatrix = errors.New("singular matrix")

	// ErrNotConverged indicates an iterative fitting procedure stopped
	// before reaching its convergence tolerance.
	ErrNotConverged = errors.New("did not converge")
)

// ValueError indicates an invalid argument value for an operation.
type ValueError struct {
	Op      string // operation that rejected the value
	Message string
}

// NewValueError creates a ValueError for the given operation.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s: %s", errPrefix, e.Op, e.Message)
}

// DimensionError indicates mismatched input dimensions.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

// NewDimensionError creates a DimensionError for the given operation.
func NewDimensionError(op string, expected, got, axis int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s: dimension mismatch on axis %d: expected %d, got %d",
		errPrefix, e.Op, e.Axis, e.Expected, e.Got)
}

// ValidationError indicates a field in the input data failed validation.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation failed for %s: %s", errPrefix, e.Field, e.Message)
}

// NotFittedError indicates a model method was called before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError for the given model and method.
func NewNotFittedError(modelName, method string) *NotFittedError {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s must be fitted before calling %s", errPrefix, e.ModelName, e.Method)
}

// ModelError wraps a lower-level failure with the operation that hit it.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

// NewModelError creates a ModelError wrapping cause.
func NewModelError(op, message string, cause error) *ModelError {
	return &ModelError{Op: op, Message: message, Err: cause}
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %s", errPrefix, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %v", errPrefix, e.Op, e.Message, e.Err)
}

// Unwrap returns the wrapped cause.
func (e *ModelError) Unwrap() error { return e.Err }

// ConvergenceError indicates an optimizer failed to reach its tolerance.
// It always wraps ErrNotConverged so callers can test with errors.Is.
type ConvergenceError struct {
	Op         string
	Iterations int
	Err        error
}

// NewConvergenceError creates a ConvergenceError after the given number of
// iterations. A nil cause defaults to ErrNotConverged.
func NewConvergenceError(op string, iterations int, cause error) *ConvergenceError {
	if cause == nil {
		cause = ErrNotConverged
	}
	return &ConvergenceError{Op: op, Iterations: iterations, Err: cause}
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s: %s: stopped after %d iterations: %v",
		errPrefix, e.Op, e.Iterations, e.Err)
}

// Unwrap returns the wrapped cause.
func (e *ConvergenceError) Unwrap() error { return e.Err }

// Is reports whether target is ErrNotConverged.
func (e *ConvergenceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// Wrap annotates err with a message, attaching a stack trace.
// Returns nil if err is nil.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message, attaching a stack trace.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Recover converts a panic in the calling function into an error assigned
// to *errp. Use as a deferred guard on public entry points:
//
//	func (m *Logit) Fit(X, y mat.Matrix) (err error) {
//		defer medscreenErrors.Recover(&err, "Logit.Fit")
//		...
//	}
func Recover(errp *error, op string) {
	if r := recover(); r != nil {
		*errp = errors.Errorf("%s: %s: panic: %v", errPrefix, op, r)
	}
}
