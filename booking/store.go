/*
store.go - Persistence contract for the live slot table

PURPOSE:
  Defines the interface between the engine and the durable slot table.
  The store is the authoritative partial function from SlotID to Booking
  and owns the only allowed mutation path.

ATOMICITY CONTRACT:
  TryBook is check-and-insert as one step with respect to every other
  concurrent TryBook/Remove on the same identity. No two concurrent callers
  may both succeed for one slot. This is the race the store exists to
  eliminate; every implementation carries it natively (mutex, unique key,
  or single-writer transaction).

WRITE-THROUGH CONTRACT:
  A successful TryBook or Remove has already reached durable storage when
  it returns. Crash loss is bounded to "nothing since the last successful
  mutation", never "since the last periodic flush".

IMPLEMENTATIONS:
  - store/snapshot: JSON full-snapshot file, atomically replaced (default)
  - store/sqlite:   SQLite table, uniqueness from the primary key
  - store/boltdb:   BoltDB bucket, single-writer update transactions
  - store/memory:   in-memory, for tests

SEE ALSO:
  - engine.go: the only caller that mutates through this interface
*/
package booking

import "context"

// SlotStore is the authoritative mapping from slot identity to booking.
type SlotStore interface {
	// TryBook atomically claims the slot. Returns ErrSlotTaken if a live
	// booking already occupies it; never silently overwrites.
	TryBook(ctx context.Context, id SlotID, b Booking) error

	// Get returns the live booking, or nil if the slot is free.
	Get(ctx context.Context, id SlotID) (*Booking, error)

	// ListDay returns time -> booking for every occupied slot on the date.
	ListDay(ctx context.Context, date string) (map[string]Booking, error)

	// Remove deletes and returns the booking, or nil if already absent.
	// Idempotent: a second remove of the same identity is a no-op, not an
	// error, so the audit-then-delete caller may retry after a partial
	// failure.
	Remove(ctx context.Context, id SlotID) (*Booking, error)

	// Close releases the underlying storage.
	Close() error
}
