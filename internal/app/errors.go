package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrInitialization indicates a bootstrap failure.
	ErrInitialization = errors.New("initialization failed")

	// ErrAlreadyClosed indicates the application has been shut down.
	ErrAlreadyClosed = errors.New("application closed")
)

// InitError wraps a component initialization failure.
type InitError struct {
	Component string
	Err       error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrInitialization).
func (e *InitError) Is(target error) bool {
	return target == ErrInitialization
}
