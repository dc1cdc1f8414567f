/*
errors.go - Centralized error types for the reservation engine

PURPOSE:
  All core error types in one place. The API layer maps these to stable
  machine-checkable codes; nothing in the core ever panics or returns an
  untyped failure for an expected condition.

ERROR CATEGORIES:
  1. Input shape errors  - rejected before reaching the core
  2. State errors        - slot taken, booking not found
  3. Authorization       - denial with a human-readable reason
  4. Durability          - ledger append or snapshot write failed

USAGE:
  Callers match with errors.Is:

    if errors.Is(err, booking.ErrSlotTaken) { ... }

  and extract detail with errors.As:

    var fe *booking.ForbiddenError
    if errors.As(err, &fe) { log.Println(fe.Reason) }

SEE ALSO:
  - engine.go: produces these errors
  - api/handlers.go: maps them to HTTP responses via Code()
*/
package booking

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingField is returned when a required request field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidFormat is returned when a field is present but malformed:
	// a date off the calendar form, a time off the 15-minute grid, a device
	// token failing the pattern.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrSlotTaken is returned when a booking attempt targets an occupied
	// slot. This is the concurrency-safe rejection: of any set of
	// simultaneous attempts on one slot, exactly one succeeds and the rest
	// receive this.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrNotFound is returned for a destructive action against a slot with
	// no live booking. A repeated cancel lands here, never on a second
	// ledger row.
	ErrNotFound = errors.New("no booking found for this slot")

	// ErrForbidden is returned when the authorization rules deny an action.
	ErrForbidden = errors.New("forbidden")

	// ErrLedgerAppend is returned when the audit ledger could not be
	// written. The removal it was guarding must not have happened: the
	// booking stays live and the whole operation is retryable.
	ErrLedgerAppend = errors.New("audit ledger append failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ForbiddenError carries the denial reason from the authorization engine.
type ForbiddenError struct {
	Action Action
	Reason string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s denied: %s", e.Action, e.Reason)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// MissingFieldError names the absent field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// =============================================================================
// API ERROR CODES
// =============================================================================

// Code maps a core error to its stable machine-checkable reason code.
// These codes are part of the API contract and never change.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(err, ErrSlotTaken):
		return "slot_taken"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrLedgerAppend):
		return "io_failure"
	default:
		return "internal"
	}
}

// IsClientError reports whether the failure is the caller's fault, as
// opposed to a durability failure the caller should retry.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrSlotTaken) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden)
}
