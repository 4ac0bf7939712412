// Package errors defines the sentinel errors shared by the repository,
// service and controller layers.
package errors

import (
	"fmt"
)

var (
	// ErrNotFound signals that an entity is absent or soft-deleted.
	ErrNotFound = fmt.Errorf("not found")
	// ErrForbidden signals that the caller has no standing in the target
	// enterprise, or that the ownership chain of the target is broken.
	ErrForbidden = fmt.Errorf("forbidden")
	// ErrInvalidInput signals malformed or out-of-range input.
	ErrInvalidInput = fmt.Errorf("invalid input")
	// ErrConflict signals a uniqueness violation.
	ErrConflict = fmt.Errorf("conflict")
	// ErrProtectedReference signals an attempt to remove reference data
	// that is still referenced by tenant entities.
	ErrProtectedReference = fmt.Errorf("protected reference")
	// ErrContention signals that a transactional balance update kept
	// failing after the bounded retry budget was spent.
	ErrContention = fmt.Errorf("contention")
	// ErrUnauthenticated signals a missing or invalid caller identity.
	ErrUnauthenticated = fmt.Errorf("unauthenticated")
)
