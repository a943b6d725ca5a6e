// Package common provides the error kinds shared by every contouring stage
// and a small timing helper.
package common

import (
	"errors"
	"fmt"
)

// Error kinds. Every ContourError matches exactly one of these with errors.Is.
var (
	ErrShapeMismatch         = errors.New("shape mismatch")
	ErrInvalidGrid           = errors.New("invalid grid")
	ErrInvalidLevel          = errors.New("invalid level")
	ErrAssemblyInconsistency = errors.New("assembly inconsistency")
	ErrUnsupportedFormatter  = errors.New("unsupported formatter")
)

// ContourError represents an error raised while building a grid or
// computing a contour.
type ContourError struct {
	Kind      error
	Operation string
	Err       error
}

func (e *ContourError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s in %s", e.Kind, e.Operation)
	}
	return fmt.Sprintf("%s in %s: %v", e.Kind, e.Operation, e.Err)
}

// Unwrap exposes both the kind and the underlying cause.
func (e *ContourError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError builds a ContourError with a formatted cause.
func NewError(kind error, op, format string, args ...any) error {
	return &ContourError{Kind: kind, Operation: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the sentinel kind of err, or nil when err is not a
// ContourError.
func KindOf(err error) error {
	var ce *ContourError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return nil
}
