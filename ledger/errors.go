/*
errors.go - Centralized error types for the bookkeeping core

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match with errors.Is / errors.As; the API layer maps these
  to HTTP statuses.

ERROR CATEGORIES:
  1. Not-found errors  - An operation referenced a missing aggregate.
     The operation aborts before performing any mutation of its own.
  2. Allocation errors - CreateInvoice cleared zero transactions.
  3. Validation errors - Malformed input, detected at the boundary
     before a Coordinator operation is invoked.

SEE ALSO:
  - coordinator.go: Produces these errors
  - api/handlers.go: Maps them to HTTP statuses
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when an operation references an id absent from
	// its collection. Wrapped by NotFoundError for context.
	ErrNotFound = errors.New("not found")

	// ErrNothingToAllocate is returned by CreateInvoice when the FIFO
	// allocator clears zero transactions: the supplier has no outstanding
	// balance, or the payment amount resolves to <= 0. No invoice is created.
	ErrNothingToAllocate = errors.New("payment clears no outstanding transactions")

	// ErrValidation is returned for malformed input that survived the API
	// boundary (e.g. a non-positive supply quantity).
	ErrValidation = errors.New("validation failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError identifies which aggregate was missing.
type NotFoundError struct {
	Kind string // "supplier", "transaction", "container", ...
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError describes a rejected field value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether err indicates a missing aggregate.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError reports whether err is due to invalid client input rather
// than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNothingToAllocate)
}
