/*
engine.go - Orchestrator for all booking state transitions

PURPOSE:
  The engine is the only component that mutates the slot store. It wires
  validation, authorization, audit, storage, and notification into one
  ordered sequence per request:

    validate -> authorize -> ledger append -> store remove -> publish

  If the ledger append fails, the unit aborts before touching the store:
  the booking stays live and the whole remove is retryable. If the store
  mutation fails after a successful append, the ledger holds a row for a
  booking that still logically exists - an accepted, documented
  inconsistency window, surfaced to the caller rather than hidden.

REMOVAL SERIALIZATION:
  The whole remove orchestration runs under one mutex. Removal traffic is
  human-scale (a cancellation every few minutes), and a single lock makes
  the core property obvious: one occupancy can never produce two audit
  rows, because get/append/remove are never interleaved between requests.

SEE ALSO:
  - store.go, ledger.go: the contracts the engine composes
  - api/handlers.go: the boundary that translates HTTP into these calls
*/
package booking

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// =============================================================================
// EVENTS
// =============================================================================

// Event is published on every successful state transition.
type Event struct {
	Date    string   `json:"date"`
	SlotKey string   `json:"slot_key"`
	Action  Reason   `json:"action"`
	Booking *Booking `json:"booking,omitempty"` // nil on removal
}

// Publisher receives state-change events. The bus package implements it;
// the engine never knows the transport.
type Publisher interface {
	Publish(ev Event)
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine orchestrates every booking state transition.
type Engine struct {
	Store    SlotStore
	Ledger   Ledger
	Bus      Publisher
	Calendar *Calendar

	// Now supplies timestamps for BookedAt/RemovedAt. Tests pin it.
	Now func() time.Time

	// removeMu serializes the authorize/append/remove sequence so one
	// occupancy yields exactly one audit row.
	removeMu sync.Mutex
}

// NewEngine wires an engine over the given collaborators. Bus may be nil
// (tests); Calendar defaults to the service-desk calendar.
func NewEngine(store SlotStore, ledger Ledger, bus Publisher) *Engine {
	return &Engine{
		Store:    store,
		Ledger:   ledger,
		Bus:      bus,
		Calendar: NewCalendar(),
		Now:      time.Now,
	}
}

func (e *Engine) publish(ev Event) {
	if e.Bus != nil {
		e.Bus.Publish(ev)
	}
}

// =============================================================================
// BOOK
// =============================================================================

// BookInput carries a booking request after JSON decoding, before validation.
type BookInput struct {
	Date     string
	Time     string
	BookedBy string
	DeviceID string
	Kiosk    bool
}

// Book validates the input, atomically claims the slot, and announces it.
// A "booked" ledger row is appended best-effort: the booking is already
// durable in the store, so a ledger failure here logs and moves on rather
// than rolling back a committed reservation.
func (e *Engine) Book(ctx context.Context, in BookInput) error {
	id, err := e.validateSlot(in.Date, in.Time)
	if err != nil {
		return err
	}
	if err := ValidateBookedBy(in.BookedBy); err != nil {
		return err
	}
	if err := ValidateDeviceID(in.DeviceID); err != nil {
		return err
	}

	b := Booking{
		BookedBy: in.BookedBy,
		DeviceID: in.DeviceID,
		BookedAt: e.Now(),
		Kiosk:    in.Kiosk,
	}
	if err := e.Store.TryBook(ctx, id, b); err != nil {
		return err
	}

	if _, err := e.Ledger.Append(ctx, EntryFor(id, b, ReasonBooked, e.Now())); err != nil {
		log.Printf("ledger: booked row for %s not written: %v", id, err)
	}

	e.publish(Event{Date: id.Date, SlotKey: id.Key(), Action: ReasonBooked, Booking: &b})
	return nil
}

// =============================================================================
// CANCEL / COMPLETE
// =============================================================================

// CancelInput carries a cancellation request.
type CancelInput struct {
	Date   string
	Time   string
	Actor  Actor
	Reason Reason // ReasonCancelled (default) or ReasonCompleted
}

// RemoveResult reports a completed removal: the record that left the store
// and the ledger file its audit row landed in.
type RemoveResult struct {
	Removed    Booking
	LedgerFile string
}

// Cancel removes a live booking on behalf of its owner or an admin.
// The audit row is written before the store mutation; if the row cannot be
// written the booking stays live and ErrLedgerAppend is returned.
func (e *Engine) Cancel(ctx context.Context, in CancelInput) (*RemoveResult, error) {
	id, err := e.validateSlot(in.Date, in.Time)
	if err != nil {
		return nil, err
	}
	if err := ValidateDeviceID(in.Actor.DeviceID); err != nil {
		return nil, err
	}

	reason := in.Reason
	if reason == "" {
		reason = ReasonCancelled
	}
	if reason != ReasonCancelled && reason != ReasonCompleted {
		return nil, fmt.Errorf("%w: reason must be cancelled or completed", ErrInvalidFormat)
	}

	action := ActionCancel
	if reason == ReasonCompleted {
		action = ActionComplete
	}

	return e.removeWithAudit(ctx, id, reason, func(b Booking) error {
		return Authorize(action, b, in.Actor)
	})
}

// =============================================================================
// EXTRACT
// =============================================================================

// Extract is the administrative forced removal: audit the booking and drop
// it from the live store, bypassing the device-ownership check. The caller
// (the admin boundary) is responsible for gating access.
func (e *Engine) Extract(ctx context.Context, slotKey string, reason Reason) (*RemoveResult, error) {
	id, err := ParseSlotKey(slotKey)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = ReasonExtracted
	}
	if !ValidReason(reason) || reason == ReasonBooked {
		return nil, fmt.Errorf("%w: invalid extraction reason %q", ErrInvalidFormat, reason)
	}
	return e.removeWithAudit(ctx, id, reason, nil)
}

// removeWithAudit runs the ordered unit: get, authorize, append, remove,
// publish. authorize may be nil for admin-forced paths.
func (e *Engine) removeWithAudit(ctx context.Context, id SlotID, reason Reason, authorize func(Booking) error) (*RemoveResult, error) {
	e.removeMu.Lock()
	defer e.removeMu.Unlock()

	b, err := e.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}

	if authorize != nil {
		if err := authorize(*b); err != nil {
			return nil, err
		}
	}

	// Audit first. No removal without a durable row.
	file, err := e.Ledger.Append(ctx, EntryFor(id, *b, reason, e.Now()))
	if err != nil {
		return nil, &ledgerAppendError{cause: err}
	}

	if _, err := e.Store.Remove(ctx, id); err != nil {
		// Accepted inconsistency window: the audit row exists but the
		// booking is still live. Surfaced, never hidden; a retry of the
		// whole remove is safe because Remove is idempotent.
		return nil, err
	}

	e.publish(Event{Date: id.Date, SlotKey: id.Key(), Action: reason})
	return &RemoveResult{Removed: *b, LedgerFile: file}, nil
}

type ledgerAppendError struct{ cause error }

func (e *ledgerAppendError) Error() string { return "audit ledger append failed: " + e.cause.Error() }
func (e *ledgerAppendError) Unwrap() error { return ErrLedgerAppend }

// =============================================================================
// READS
// =============================================================================

// ListDay returns time -> booking for every occupied slot on the date.
func (e *Engine) ListDay(ctx context.Context, date string) (map[string]Booking, error) {
	if date == "" {
		return nil, &MissingFieldError{Field: "date"}
	}
	if err := (SlotID{Date: date, Time: "09:00"}).Validate(); err != nil {
		return nil, err
	}
	return e.Store.ListDay(ctx, date)
}

// validateSlot checks presence, format, and calendar membership of a
// requested slot identity.
func (e *Engine) validateSlot(date, tm string) (SlotID, error) {
	if date == "" {
		return SlotID{}, &MissingFieldError{Field: "date"}
	}
	if tm == "" {
		return SlotID{}, &MissingFieldError{Field: "time"}
	}
	id := SlotID{Date: date, Time: tm}
	if err := id.Validate(); err != nil {
		return SlotID{}, err
	}
	if !e.Calendar.ValidSlotTime(tm) {
		return SlotID{}, fmt.Errorf("%w: time %q is outside business hours", ErrInvalidFormat, tm)
	}
	return id, nil
}
