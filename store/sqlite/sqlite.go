/*
Package sqlite provides a SQLite-backed implementation of the SlotStore.

PURPOSE:
  Durable slot table for deployments that outgrow the snapshot file. The
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

UNIQUENESS ENFORCEMENT:
  The at-most-one-booking-per-slot invariant is carried by the table
  itself: slot_key is the PRIMARY KEY, so a second concurrent INSERT on the
  same slot fails at the database, not in application code. TryBook maps
  that constraint violation to booking.ErrSlotTaken.

WAL MODE:
  Opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery
  Write-through durability comes from the committed transaction, not from a
  separate snapshot step.

USAGE:
  store, err := sqlite.New("./data/bookings.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper migration
  tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - booking/store.go: Interface definition
  - store/snapshot: default JSON snapshot backend
  - store/memory: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/techcafe/reservation-engine/booking"
)

// Store implements booking.SlotStore using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a SQLite slot store at the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pool connection to :memory: is a distinct database; pin
		// the pool to one connection so tests see a single table.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		slot_key  TEXT PRIMARY KEY,
		date      TEXT NOT NULL,
		time      TEXT NOT NULL,
		booked_by TEXT NOT NULL,
		device_id TEXT NOT NULL,
		booked_at TEXT NOT NULL,
		kiosk     INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_slots_date ON slots(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// TryBook inserts the booking; the primary key carries the uniqueness
// invariant, so two concurrent claims on one slot cannot both commit.
func (s *Store) TryBook(ctx context.Context, id booking.SlotID, b booking.Booking) error {
	kiosk := 0
	if b.Kiosk {
		kiosk = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (slot_key, date, time, booked_by, device_id, booked_at, kiosk)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.Key(), id.Date, id.Time, b.BookedBy, b.DeviceID, b.BookedAt.Format(time.RFC3339Nano), kiosk,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return booking.ErrSlotTaken
		}
		return fmt.Errorf("sqlite: insert slot: %w", err)
	}
	return nil
}

// Get returns the live booking, or nil if the slot is free.
func (s *Store) Get(ctx context.Context, id booking.SlotID) (*booking.Booking, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT booked_by, device_id, booked_at, kiosk FROM slots WHERE slot_key = ?`,
		id.Key(),
	)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get slot: %w", err)
	}
	return b, nil
}

// ListDay returns time -> booking for every occupied slot on the date.
func (s *Store) ListDay(ctx context.Context, date string) (map[string]booking.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT time, booked_by, device_id, booked_at, kiosk FROM slots WHERE date = ?`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list day: %w", err)
	}
	defer rows.Close()

	out := make(map[string]booking.Booking)
	for rows.Next() {
		var (
			tm, bookedBy, deviceID, bookedAt string
			kiosk                            int
		)
		if err := rows.Scan(&tm, &bookedBy, &deviceID, &bookedAt, &kiosk); err != nil {
			return nil, fmt.Errorf("sqlite: scan slot: %w", err)
		}
		at, err := time.Parse(time.RFC3339Nano, bookedAt)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse booked_at: %w", err)
		}
		out[tm] = booking.Booking{BookedBy: bookedBy, DeviceID: deviceID, BookedAt: at, Kiosk: kiosk != 0}
	}
	return out, rows.Err()
}

// Remove deletes and returns the booking inside one transaction; nil if
// the slot was already free.
func (s *Store) Remove(ctx context.Context, id booking.SlotID) (*booking.Booking, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT booked_by, device_id, booked_at, kiosk FROM slots WHERE slot_key = ?`,
		id.Key(),
	)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get for remove: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE slot_key = ?`, id.Key()); err != nil {
		return nil, fmt.Errorf("sqlite: delete slot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit: %w", err)
	}
	return b, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*booking.Booking, error) {
	var (
		bookedBy, deviceID, bookedAt string
		kiosk                        int
	)
	if err := row.Scan(&bookedBy, &deviceID, &bookedAt, &kiosk); err != nil {
		return nil, err
	}
	at, err := time.Parse(time.RFC3339Nano, bookedAt)
	if err != nil {
		return nil, fmt.Errorf("parse booked_at: %w", err)
	}
	return &booking.Booking{BookedBy: bookedBy, DeviceID: deviceID, BookedAt: at, Kiosk: kiosk != 0}, nil
}
