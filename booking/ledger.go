/*
ledger.go - Append-only audit trail contract

PURPOSE:
  Every booking that leaves the slot store is recorded here first. The
  ledger is the durable history that survives independently of the live
  snapshot: reconciliation never needs the store.

APPEND-THEN-DELETE:
  The engine calls Append and requires it to succeed BEFORE removing the
  booking from the store. If the append fails, the removal does not happen
  and the booking stays live and retryable. The inverse ordering
  (delete-then-append) is forbidden: it can lose history.

WRITE-ONCE ROWS:
  A day's ledger file is created with a header on first write and rows are
  only ever appended. No row is ever rewritten.

SEE ALSO:
  - ledger/csv.go: the per-day CSV implementation
  - engine.go: the orchestrator enforcing the ordering
*/
package booking

import (
	"context"
	"time"
)

// Entry is one audit row: a booking together with when and why it left
// (or, for ReasonBooked, entered) the live store.
type Entry struct {
	Slot      SlotID
	BookedBy  string
	DeviceID  string
	BookedAt  time.Time
	RemovedAt time.Time
	Reason    Reason
	Kiosk     bool
}

// EntryFor builds the audit row for a booking leaving (or entering) slot id.
func EntryFor(id SlotID, b Booking, reason Reason, at time.Time) Entry {
	return Entry{
		Slot:      id,
		BookedBy:  b.BookedBy,
		DeviceID:  b.DeviceID,
		BookedAt:  b.BookedAt,
		RemovedAt: at,
		Reason:    reason,
		Kiosk:     b.Kiosk,
	}
}

// LedgerFile describes one day's ledger file for the admin surface.
type LedgerFile struct {
	Name     string    `json:"filename"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	Date     string    `json:"date"` // the day the file covers
}

// Ledger is the append-only per-day audit log.
type Ledger interface {
	// Append durably writes one row to the entry's day file, creating the
	// file with a header on first use. Returns the file name the row landed
	// in. Append-only: there is no update or delete.
	Append(ctx context.Context, e Entry) (string, error)

	// List returns the existing ledger files, newest day first.
	List(ctx context.Context) ([]LedgerFile, error)
}
