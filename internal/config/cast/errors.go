package cast

import (
	"errors"
	"fmt"
)

// Errors returned by casting operations.
var (
	// ErrInvalidValue indicates a raw string could not be coerced.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidEnum indicates a value is not a member of its enumeration.
	ErrInvalidEnum = errors.New("invalid enum value")
)

// CastError reports a failed coercion for a single key.
type CastError struct {
	// Key is the configuration key being cast.
	Key string
	// Raw is the raw string value.
	Raw string
	// Message describes the failure.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *CastError) Error() string {
	return fmt.Sprintf("invalid %s: %q - %s", e.Key, e.Raw, e.Message)
}

// Unwrap returns the underlying error.
func (e *CastError) Unwrap() error {
	return e.Err
}

// Is implements error matching for CastError.
func (e *CastError) Is(target error) bool {
	return target == ErrInvalidValue
}

// EnumError reports a value outside a fixed enumeration.
type EnumError struct {
	// Key is the configuration key being cast.
	Key string
	// Raw is the raw string value.
	Raw string
	// Allowed lists the enumeration members.
	Allowed []string
}

// Error implements the error interface.
func (e *EnumError) Error() string {
	return fmt.Sprintf("invalid %s: %q (allowed: %v)", e.Key, e.Raw, e.Allowed)
}

// Is implements error matching for EnumError.
func (e *EnumError) Is(target error) bool {
	return target == ErrInvalidEnum || target == ErrInvalidValue
}
