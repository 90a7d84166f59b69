package model

import (
	"errors"
	"fmt"
)

// ErrPredictionUnavailable is returned when the scorer cannot produce a usable
// verdict. The underlying cause is logged where it happens and never attached.
var ErrPredictionUnavailable = errors.New("prediction unavailable")

// MissingFieldError names the first required field that is absent or empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Missing required field: %s", e.Field)
}

// NotANumberError is returned when a numeric field does not coerce to a finite number.
type NotANumberError struct {
	Field string
	Value any
}

func (e *NotANumberError) Error() string {
	return fmt.Sprintf("Invalid numeric value for field: %s", e.Field)
}

// InvalidDateError is returned when a date field cannot be parsed.
type InvalidDateError struct {
	Field string
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("Invalid date value for field: %s", e.Field)
}

// InvalidFieldError is returned when a categorical field holds a structured
// value (object or array) instead of a scalar.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("Invalid value for field: %s", e.Field)
}

// PersistenceError wraps any failure of the claim store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("claim store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError wraps err for the given store operation.
func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// IsValidationError reports whether err is a caller input defect.
func IsValidationError(err error) bool {
	var missing *MissingFieldError
	var nan *NotANumberError
	var date *InvalidDateError
	var invalid *InvalidFieldError
	return errors.As(err, &missing) || errors.As(err, &nan) ||
		errors.As(err, &date) || errors.As(err, &invalid)
}
