// Package nnerr defines the error types returned by the network packages.
//
// Every constructor attaches a stack trace through github.com/pkg/errors.
// Callers recover the concrete type with the standard errors.As, or with the
// Is* helpers below.
package nnerr

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// ConfigurationError reports an invalid network configuration: bad topology,
// unknown activation or loss id, or exceeded capacity.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// DimensionError reports a vector whose length does not match the layer or
// network it was passed to.
type DimensionError struct {
	Op   string
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension error: %s: want length %d, got %d", e.Op, e.Want, e.Got)
}

// NumericError reports an undefined numeric operation, such as a reduction
// over zero elements or a logarithm of a non-positive value.
type NumericError struct {
	Op     string
	Reason string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("numeric error: %s: %s", e.Op, e.Reason)
}

// Configuration returns a *ConfigurationError for field.
func Configuration(field, format string, args ...interface{}) error {
	return errors.WithStack(&ConfigurationError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	})
}

// Dimension returns a *DimensionError for op.
func Dimension(op string, want, got int) error {
	return errors.WithStack(&DimensionError{Op: op, Want: want, Got: got})
}

// Numeric returns a *NumericError for op.
func Numeric(op, format string, args ...interface{}) error {
	return errors.WithStack(&NumericError{
		Op:     op,
		Reason: fmt.Sprintf(format, args...),
	})
}

// IsConfiguration reports whether err wraps a *ConfigurationError.
func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return stderrors.As(err, &target)
}

// IsDimension reports whether err wraps a *DimensionError.
func IsDimension(err error) bool {
	var target *DimensionError
	return stderrors.As(err, &target)
}

// IsNumeric reports whether err wraps a *NumericError.
func IsNumeric(err error) bool {
	var target *NumericError
	return stderrors.As(err, &target)
}
