// Package errors provides the error taxonomy used across creditprep.
//
// It is a thin layer over github.com/cockroachdb/errors: constructors and
// wrapping helpers carry stack traces (printable with "%+v"), while the typed
// errors below let callers branch with errors.Is / errors.As:
//
//   - NotFittedError: an estimator was used before Fit (a caller bug)
//   - ValueError: an argument or configuration value is invalid
//   - DimensionError: row or column counts do not line up
//   - ValidationError: a named parameter failed validation
//   - ModelError: a wrapped failure inside a named operation
//
// Example:
//
//	if _, err := imp.Transform(tbl); err != nil {
//		var nf *errors.NotFittedError
//		if errors.As(err, &nf) {
//			// call Fit first
//		}
//	}
package errors

import (
	"fmt"

	cockroach "github.com/cockroachdb/errors"
)

const prefix = "creditprep"

// Sentinel errors.
var (
	ErrNotFitted         = cockroach.New("estimator is not fitted")
	ErrEmptyData         = cockroach.New("empty data")
	ErrInvalidInput      = cockroach.New("invalid input")
	ErrDimensionMismatch = cockroach.New("dimension mismatch")
	ErrNotImplemented    = cockroach.New("not implemented")
)

// New returns an error with a stack trace.
func New(msg string) error { return cockroach.New(msg) }

// Newf returns a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error { return cockroach.Newf(format, args...) }

// Wrap annotates err with msg. Returns nil when err is nil.
func Wrap(err error, msg string) error { return cockroach.Wrap(err, msg) }

// Wrapf annotates err with a formatted message. Returns nil when err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return cockroach.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return cockroach.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return cockroach.As(err, target) }

// NotFittedError is returned when Transform (or any fitted-only method) is
// called before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError.
func NewNotFittedError(modelName, method string) error {
	return cockroach.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s is not fitted yet, call Fit before %s", prefix, e.ModelName, e.Method)
}

// Is makes errors.Is(err, ErrNotFitted) true for every NotFittedError.
func (e *NotFittedError) Is(target error) bool { return target == ErrNotFitted }

// ValueError reports an invalid argument value.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError.
func NewValueError(op, message string) error {
	return cockroach.WithStack(&ValueError{Op: op, Message: message})
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
}

// Is makes errors.Is(err, ErrInvalidInput) true for every ValueError.
func (e *ValueError) Is(target error) bool { return target == ErrInvalidInput }

// DimensionError reports mismatched lengths. Axis 0 is rows, 1 is columns.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

// NewDimensionError creates a DimensionError.
func NewDimensionError(op string, expected, got, axis int) error {
	return cockroach.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

func (e *DimensionError) Error() string {
	axis := "rows"
	if e.Axis == 1 {
		axis = "columns"
	}
	return fmt.Sprintf("%s: %s: dimension mismatch on %s: expected %d, got %d", prefix, e.Op, axis, e.Expected, e.Got)
}

// Is makes errors.Is(err, ErrDimensionMismatch) true for every DimensionError.
func (e *DimensionError) Is(target error) bool { return target == ErrDimensionMismatch }

// ValidationError reports a named parameter that failed validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

// NewValidationError creates a ValidationError.
func NewValidationError(paramName, reason string, value interface{}) error {
	return cockroach.WithStack(&ValidationError{ParamName: paramName, Reason: reason, Value: value})
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s (%v): %s", prefix, e.ParamName, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) true for every ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// ModelError wraps a failure inside a named operation.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

// NewModelError creates a ModelError.
func NewModelError(op, kind string, err error) error {
	return cockroach.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Op, e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// Recover converts a panic in the calling function into an error assigned to
// *err. Use it as `defer errors.Recover(&err, "Imputer.Fit")`.
func Recover(err *error, op string) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok {
		*err = NewModelError(op, "panic", e)
		return
	}
	*err = NewModelError(op, "panic", cockroach.Newf("%v", r))
}
