package money

import (
	"errors"
	"fmt"
	"math"
)

// Constraint identifiers carried by ValidationError.
const (
	ConstraintNotANumber = "not_a_number"
	ConstraintNegative   = "negative"
	ConstraintZero       = "zero"
	ConstraintBelowMin   = "below_min"
	ConstraintAboveMax   = "above_max"
)

// ValidationError reports a numeric input that violated a named constraint.
type ValidationError struct {
	Field      string
	Constraint string
	Value      float64
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch e.Constraint {
	case ConstraintNotANumber:
		return fmt.Sprintf("%s must be a number", e.Field)
	case ConstraintNegative:
		return fmt.Sprintf("%s must not be negative, got %v", e.Field, e.Value)
	case ConstraintZero:
		return fmt.Sprintf("%s must not be zero", e.Field)
	case ConstraintBelowMin:
		return fmt.Sprintf("%s is below the allowed minimum, got %v", e.Field, e.Value)
	case ConstraintAboveMax:
		return fmt.Sprintf("%s is above the allowed maximum, got %v", e.Field, e.Value)
	default:
		return fmt.Sprintf("%s is invalid, got %v", e.Field, e.Value)
	}
}

// IsValidationError checks whether the error chain contains a ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// ValidateOptions controls which values ValidateNumber accepts.
type ValidateOptions struct {
	AllowNegative bool
	AllowZero     bool
	Min           *float64
	Max           *float64
}

// ValidateNumber is the single validation gate for every numeric field that
// enters the engine. It returns a ValidationError naming the field and the
// violated constraint; it never coerces the value.
func ValidateNumber(value float64, field string, opts ValidateOptions) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &ValidationError{Field: field, Constraint: ConstraintNotANumber, Value: value}
	}
	if value < 0 && !opts.AllowNegative {
		return &ValidationError{Field: field, Constraint: ConstraintNegative, Value: value}
	}
	if value == 0 && !opts.AllowZero {
		return &ValidationError{Field: field, Constraint: ConstraintZero, Value: value}
	}
	if opts.Min != nil && value < *opts.Min {
		return &ValidationError{Field: field, Constraint: ConstraintBelowMin, Value: value}
	}
	if opts.Max != nil && value > *opts.Max {
		return &ValidationError{Field: field, Constraint: ConstraintAboveMax, Value: value}
	}
	return nil
}

// ValidateCents validates an integer cent amount with the same gate.
func ValidateCents(value Cents, field string, opts ValidateOptions) error {
	return ValidateNumber(float64(value), field, opts)
}

// Float64Ptr is a convenience for building ValidateOptions bounds.
func Float64Ptr(v float64) *float64 { return &v }
