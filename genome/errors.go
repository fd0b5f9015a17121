package genome

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching.
var (
	ErrValidation           = errors.New("validation failed")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
)

// ValidationError reports malformed genome or characteristic input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InsufficientCapacityError reports a genome too short for the requested derivation.
type InsufficientCapacityError struct {
	Need int
	Have int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("genome too short: need %d values, have %d", e.Need, e.Have)
}

func (e *InsufficientCapacityError) Unwrap() error { return ErrInsufficientCapacity }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
