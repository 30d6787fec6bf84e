package geometry

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrInvalidDescriptor is wrapped by every ValidationError.
var ErrInvalidDescriptor = errors.New("geometry: invalid descriptor")

// ValidationError reports which parameter of a descriptor is unusable.
type ValidationError struct {
	Shape  string
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("geometry: %s.%s = %v: %s", e.Shape, e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidDescriptor so errors.Is works on the result of
// Generate.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidDescriptor
}

func checkDimension(shape, field string, v float32) error {
	switch {
	case math32.IsNaN(v) || math32.IsInf(v, 0):
		return &ValidationError{Shape: shape, Field: field, Value: float64(v), Reason: "must be finite"}
	case v <= 0:
		return &ValidationError{Shape: shape, Field: field, Value: float64(v), Reason: "must be positive"}
	}
	return nil
}
