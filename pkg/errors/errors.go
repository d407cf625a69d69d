// Package errors provides the error taxonomy used across the module.
//
// It is a thin layer over github.com/cockroachdb/errors: sentinel values for
// the conditions callers branch on, a handful of typed errors that carry
// structured context (operation, dimensions, column names), and re-exports of
// the wrapping helpers so that packages only need a single errors import.
//
// Typed errors wrap their sentinel, so both styles work:
//
//	if errors.Is(err, errors.ErrSingularMatrix) { ... }
//
//	var se *errors.SchemaError
//	if errors.As(err, &se) { fmt.Println(se.Columns) }
package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinel errors.
var (
	ErrEmptyData         = errors.New("empty data")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrSingularMatrix    = errors.New("singular matrix")
	ErrInsufficientData  = errors.New("insufficient data")
	ErrNotFitted         = errors.New("model not fitted")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrMissingColumn     = errors.New("missing column")
	ErrSchemaMismatch    = errors.New("schema mismatch")
	ErrNotImplemented    = errors.New("not implemented")
)

// Re-exported helpers so callers do not need a second errors import.
var (
	New    = errors.New
	Newf   = errors.Newf
	Wrap   = errors.Wrap
	Wrapf  = errors.Wrapf
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// ModelError reports a failure inside a model operation.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("happiness: %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("happiness: %s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// NewModelError creates a ModelError with a stack trace attached.
func NewModelError(op, message string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Message: message, Err: err})
}

// DimensionError reports a shape mismatch along Axis (0 = rows, 1 = columns).
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

func (e *DimensionError) Error() string {
	axis := "rows"
	if e.Axis == 1 {
		axis = "columns"
	}
	return fmt.Sprintf("%s: dimension mismatch on %s: expected %d, got %d", e.Op, axis, e.Expected, e.Got)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// NewDimensionError creates a DimensionError.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValueError reports an argument with an invalid value.
type ValueError struct {
	Op      string
	Message string
	Err     error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ValueError) Unwrap() error { return e.Err }

// NewValueError creates a ValueError that wraps ErrInvalidParameter.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message, Err: ErrInvalidParameter})
}

// NewEmptyDataError creates a ValueError that wraps ErrEmptyData.
func NewEmptyDataError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message, Err: ErrEmptyData})
}

// NotFittedError is returned when a model is used before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s called before Fit", e.ModelName, e.Method)
}

func (e *NotFittedError) Unwrap() error { return ErrNotFitted }

// NewNotFittedError creates a NotFittedError.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// SchemaError reports missing columns or disagreeing column sets.
type SchemaError struct {
	Op      string
	Columns []string
	Err     error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %v: [%s]", e.Op, e.Err, strings.Join(e.Columns, ", "))
}

func (e *SchemaError) Unwrap() error { return e.Err }

// NewMissingColumnError creates a SchemaError wrapping ErrMissingColumn.
func NewMissingColumnError(op string, columns ...string) error {
	return errors.WithStack(&SchemaError{Op: op, Columns: columns, Err: ErrMissingColumn})
}

// NewSchemaMismatchError creates a SchemaError wrapping ErrSchemaMismatch.
// columns lists the names present on one side only.
func NewSchemaMismatchError(op string, columns ...string) error {
	return errors.WithStack(&SchemaError{Op: op, Columns: columns, Err: ErrSchemaMismatch})
}

// ValidationError reports an invalid configuration or parameter value.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s (got %v)", e.Field, e.Message, e.Value)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidParameter }

// NewValidationError creates a ValidationError.
func NewValidationError(field, message string, value interface{}) error {
	return errors.WithStack(&ValidationError{Field: field, Message: message, Value: value})
}

// Recover converts a panic into an error assigned to *errp. It must be
// deferred directly:
//
//	func (m *Model) Fit(X, y mat.Matrix) (err error) {
//		defer errors.Recover(&err, "Model.Fit")
//		...
//	}
//
// gonum reports shape violations by panicking, so every public entry point
// that touches mat types defers Recover.
func Recover(errp *error, op string) {
	r := recover()
	if r == nil {
		return
	}
	var err error
	switch v := r.(type) {
	case error:
		err = errors.Wrapf(v, "%s: recovered from panic", op)
	default:
		err = errors.Newf("%s: recovered from panic: %v", op, v)
	}
	if errp != nil {
		*errp = err
	}
}
