package domain

import "errors"

// Sentinel errors for the core error taxonomy.
// Callers match them with errors.Is; the HTTP adapter maps them to status codes.
var (
	// ErrInvalidNumberFormat indicates an ambiguous or unparsable numeric input.
	// It is always surfaced to the caller, never silently coerced to zero.
	ErrInvalidNumberFormat = errors.New("invalid number format")

	// ErrNotAnInteger indicates an integer-only field received a fractional value.
	ErrNotAnInteger = errors.New("not an integer")

	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflictingState indicates an operation that would violate a lifecycle
	// invariant (second liability on an asset, re-closing a closed month).
	ErrConflictingState = errors.New("conflicting state")
)
