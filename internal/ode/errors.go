package ode

import "errors"

// Domain errors for propagation operations.
var (
	// ErrUnknownMethod indicates a stepping method outside the supported set.
	ErrUnknownMethod = errors.New("ode: unknown integration method")

	// ErrNonPositiveStep indicates a step size that is zero, negative or NaN.
	// A non-positive step never advances the remaining span and would loop
	// forever, so it is rejected at construction.
	ErrNonPositiveStep = errors.New("ode: step size must be positive")

	// ErrEmptyState indicates a zero-length initial state.
	ErrEmptyState = errors.New("ode: empty state vector")

	// ErrInvalidState indicates a state with NaN or Inf entries.
	ErrInvalidState = errors.New("ode: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates states or derivative values of
	// different lengths used together.
	ErrDimensionMismatch = errors.New("ode: dimension mismatch")
)

// PropagationError wraps an error with the step and time at which
// propagation failed.
type PropagationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *PropagationError) Error() string {
	return e.Wrapped.Error()
}

func (e *PropagationError) Unwrap() error {
	return e.Wrapped
}
