/*
snapshot.go - JSON full-snapshot file SlotStore (default backend)

PURPOSE:
  The live slot table is an in-memory map; after every successful mutation
  the whole table is serialized to JSON and atomically replaces the
  snapshot file before the call returns (write-through). On start the store
  rehydrates from the latest snapshot.

ATOMIC REPLACE:
  Writes go to a temp file in the same directory followed by rename. A
  crash between mutations loses at most the mutation in flight, never
  corrupts older state: readers of the file always see a complete snapshot.

TRADEOFF:
  Snapshot-per-mutation is a deliberate simplicity/durability tradeoff for
  human-scale booking volume, not a legacy artifact. Replacing it means
  replacing it with a proper write-ahead log, not with periodic flushing.

SEE ALSO:
  - booking/store.go: the contract, including the atomicity of TryBook
*/
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/techcafe/reservation-engine/booking"
)

// Store is the snapshot-file-backed SlotStore.
type Store struct {
	path string

	mu    sync.RWMutex
	slots map[string]booking.Booking
}

// Open loads the snapshot at path, or starts empty if none exists.
func Open(path string) (*Store, error) {
	s := &Store{path: path, slots: make(map[string]booking.Booking)}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.slots); err != nil {
		return nil, fmt.Errorf("snapshot: parse %s: %w", path, err)
	}
	return s, nil
}

// TryBook claims the slot and persists the table before returning.
func (s *Store) TryBook(_ context.Context, id booking.SlotID, b booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := id.Key()
	if _, taken := s.slots[key]; taken {
		return booking.ErrSlotTaken
	}
	s.slots[key] = b
	if err := s.writeLocked(); err != nil {
		// The insert is not durable; undo it so memory and disk agree.
		delete(s.slots, key)
		return err
	}
	return nil
}

func (s *Store) Get(_ context.Context, id booking.SlotID) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.slots[id.Key()]; ok {
		return &b, nil
	}
	return nil, nil
}

func (s *Store) ListDay(_ context.Context, date string) (map[string]booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]booking.Booking)
	prefix := date + "_"
	for key, b := range s.slots {
		if strings.HasPrefix(key, prefix) {
			out[strings.TrimPrefix(key, prefix)] = b
		}
	}
	return out, nil
}

// Remove deletes the booking and persists the table before returning.
// Idempotent: absent slot is a nil result, not an error, and writes nothing.
func (s *Store) Remove(_ context.Context, id booking.SlotID) (*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := id.Key()
	b, ok := s.slots[key]
	if !ok {
		return nil, nil
	}
	delete(s.slots, key)
	if err := s.writeLocked(); err != nil {
		s.slots[key] = b
		return nil, err
	}
	return &b, nil
}

func (s *Store) Close() error { return nil }

// writeLocked serializes the whole table and atomically replaces the
// snapshot file. Caller holds the write lock, so the file is
// single-writer-at-a-time by construction.
func (s *Store) writeLocked() error {
	data, err := json.MarshalIndent(s.slots, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("snapshot: temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("snapshot: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("snapshot: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("snapshot: close: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("snapshot: rename: %w", err)
	}
	return nil
}
