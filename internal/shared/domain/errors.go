package domain

import "errors"

// Error categories shared by every bounded context. Context packages wrap
// these so callers can match either a specific sentinel or its category:
//
//	errors.Is(err, booking.ErrAlreadyDeparted) // specific invariant
//	errors.Is(err, domain.ErrStateConflict)    // whole category
var (
	// ErrValidation marks malformed input rejected before any mutation.
	ErrValidation = errors.New("validation error")

	// ErrStateConflict marks an operation that is illegal in the entity's
	// current lifecycle state.
	ErrStateConflict = errors.New("state conflict")

	// ErrNoCapacity marks an extension or transfer that cannot be satisfied.
	// It is always raised before any mutating side effect is applied.
	ErrNoCapacity = errors.New("no capacity")

	// ErrNotFound marks an unknown identifier.
	ErrNotFound = errors.New("not found")
)

// categorisedError attaches a category sentinel to a specific sentinel so
// both match under errors.Is.
type categorisedError struct {
	category error
	err      error
}

func (e *categorisedError) Error() string { return e.err.Error() }

func (e *categorisedError) Is(target error) bool {
	return errors.Is(e.err, target) || errors.Is(e.category, target)
}

func (e *categorisedError) Unwrap() error { return e.err }

// NewValidationError creates a sentinel in the validation category.
func NewValidationError(msg string) error {
	return &categorisedError{category: ErrValidation, err: errors.New(msg)}
}

// NewStateConflictError creates a sentinel in the state-conflict category.
func NewStateConflictError(msg string) error {
	return &categorisedError{category: ErrStateConflict, err: errors.New(msg)}
}

// NewNoCapacityError creates a sentinel in the no-capacity category.
func NewNoCapacityError(msg string) error {
	return &categorisedError{category: ErrNoCapacity, err: errors.New(msg)}
}

// NewNotFoundError creates a sentinel in the not-found category.
func NewNotFoundError(msg string) error {
	return &categorisedError{category: ErrNotFound, err: errors.New(msg)}
}
