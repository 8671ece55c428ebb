/*
errors.go - Centralized error types for the settlement engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Three failure families exist, matching the engine contract:
    1. Not-found   - unknown employee at computation or lookup time
    2. Invalid input - a validation precondition failed; never coerced
    3. Storage failure - the ledger or profile store could not complete

  Formula functions never fail. Every error originates in validation or
  in I/O around the formulas.

USAGE:
  if errors.Is(err, settlement.ErrEmployeeNotFound) { ... }

  var invalid *settlement.InvalidInputError
  if errors.As(err, &invalid) { ... invalid.Field ... }

SEE ALSO:
  - engine.go: produces these errors
  - api/handlers.go: maps them to HTTP status codes
*/
package settlement

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when an employee id resolves to nothing.
	// Surfaced to callers as "no such employee"; never retried automatically.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrInvalidInput is returned when a computation precondition fails,
	// e.g. a termination date on or before the hire date.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorageFailure is returned when the ledger append or profile lookup
	// could not complete. The whole request is safe to retry: no partial
	// state is ever written.
	ErrStorageFailure = errors.New("storage failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError reports which field failed validation and why.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// StorageError wraps a lower-level store failure with the operation that hit it.
type StorageError struct {
	Op  string // e.g. "append settlement", "load profile"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return ErrStorageFailure
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether err indicates a missing employee.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}

// IsClientError reports whether err is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRetryable reports whether the whole request may be retried. Storage
// failures leave no partial state, so they always are.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}
