package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound           = errors.New("resource not found")
	ErrExperimentNotFound = fmt.Errorf("%w: experiment", ErrNotFound)
	ErrPreviewNotFound    = fmt.Errorf("%w: import preview", ErrNotFound)

	// Import errors
	ErrIOFailure      = errors.New("input could not be read")
	ErrSchemaMismatch = errors.New("sheet does not match expected layout")
	ErrMalformedInput = errors.New("malformed input")

	// Selection errors
	ErrStaleSelection = errors.New("selection does not match pending records")
	ErrNotCommittable = errors.New("result is not committable")
)

// NewNotFoundError builds a not-found error for a resource id
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewSchemaMismatchError names the cell, the expected text and what was found.
func NewSchemaMismatchError(cell string, expected, got string) error {
	return fmt.Errorf("%w: at %s expected %q, got %q", ErrSchemaMismatch, cell, expected, got)
}

// NewIOFailureError wraps a low level read error
func NewIOFailureError(source string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrIOFailure, source, err)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsSchemaMismatch(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}

func IsIOFailure(err error) bool {
	return errors.Is(err, ErrIOFailure)
}

// IsInputError reports errors caused by the uploaded content or the caller's selection.
func IsInputError(err error) bool {
	return errors.Is(err, ErrSchemaMismatch) ||
		errors.Is(err, ErrIOFailure) ||
		errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrStaleSelection) ||
		errors.Is(err, ErrNotCommittable)
}
