package model

import (
	"errors"
	"fmt"
)

// ErrUnknownField marks references to field ids absent from the tree.
var ErrUnknownField = errors.New("unknown field")

// InvalidInputError is the only failure the engine raises before a solve:
// malformed times, unknown pinned subfields, demands no field can host, pins
// outside every availability window.
type InvalidInputError struct {
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// InvalidInput wraps err, or builds a new invalid-input error from reason.
func InvalidInput(reason string, err error) *InvalidInputError {
	return &InvalidInputError{Reason: reason, Err: err}
}

// IsInvalidInput reports whether err is an input validation failure.
func IsInvalidInput(err error) bool {
	var iie *InvalidInputError
	return errors.As(err, &iie)
}
