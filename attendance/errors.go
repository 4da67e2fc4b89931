/*
errors.go - Validation error codes and sentinel errors

PURPOSE:
  All error types for the attendance package in one place. Punch
  validation failures are returned as DATA (ValidationError values),
  never thrown - the calling layer decides the HTTP status and response
  shape. Sentinel errors cover the storage-facing conditions.

ERROR FAMILIES:
  1. ValidationError - per-punch rejection codes, accumulated (a single
     punch can fail several checks at once)
  2. Sentinel errors - lookup and persistence failures, used with errors.Is

SEE ALSO:
  - validator.go: Produces ValidationError values
  - store/sqlite: Wraps sentinel errors with storage context
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// VALIDATION ERROR CODES
// =============================================================================

const (
	// CodeInvalidFirstPunch: first punch of an empty history must be "in".
	CodeInvalidFirstPunch = "INVALID_FIRST_PUNCH"

	// CodeInvalidSequence: transition not allowed from the previous punch type.
	CodeInvalidSequence = "INVALID_PUNCH_SEQUENCE"

	// CodeTooEarly: clock-in before shift start minus the grace period.
	CodeTooEarly = "TOO_EARLY"

	// CodeTooLate: clock-out after shift end plus the grace period.
	CodeTooLate = "TOO_LATE"

	// CodeBreakLimitExceeded: cumulative break time already at the allowance.
	CodeBreakLimitExceeded = "BREAK_LIMIT_EXCEEDED"

	// CodeDuplicatePunch: same punch type within the duplicate window.
	// This is the idempotency backstop beneath any request-level key.
	CodeDuplicatePunch = "DUPLICATE_PUNCH"
)

// ValidationError is a single punch-rejection reason. Returned as a value,
// never as a Go error, so the HTTP layer controls status and shape.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrExceptionNotFound is returned when a referenced exception doesn't exist.
	ErrExceptionNotFound = errors.New("exception not found")

	// ErrDuplicatePunch is returned when the store rejects an identical punch row.
	ErrDuplicatePunch = errors.New("duplicate punch")

	// ErrUnknownPunchType is returned when an incoming punch type is not
	// one of in/out/break_start/break_end.
	ErrUnknownPunchType = errors.New("unknown punch type")
)

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrExceptionNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicatePunch) ||
		errors.Is(err, ErrUnknownPunchType)
}
