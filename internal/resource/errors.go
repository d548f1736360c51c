package resource

import (
	"errors"
	"fmt"
)

// Sentinel errors for resource lookups.
var (
	// ErrNotFound indicates a resource could not be resolved in any
	// fallback location.
	ErrNotFound = errors.New("resource not found")

	// ErrUnknownCategory indicates a category name was never declared.
	ErrUnknownCategory = errors.New("unknown resource category")
)

// NotFoundError is returned when a lookup exhausts every fallback
// location. It is fatal to the requesting operation only; the index
// itself stays valid.
type NotFoundError struct {
	Category string
	Name     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource %q not found in category %q", e.Name, e.Category)
}

// Is allows errors.Is(err, ErrNotFound).
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UnknownCategoryError is returned when an operation names a category
// that was not declared at initialization time.
type UnknownCategoryError struct {
	Category string
}

// Error implements the error interface.
func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown resource category %q", e.Category)
}

// Is allows errors.Is(err, ErrUnknownCategory).
func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrUnknownCategory
}
