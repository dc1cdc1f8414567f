// Package memory provides an in-memory SlotStore for tests and development.
// Same locking discipline as the durable backends, no persistence.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/techcafe/reservation-engine/booking"
)

// Store is a map-backed SlotStore. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	slots map[string]booking.Booking // slot key -> booking
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{slots: make(map[string]booking.Booking)}
}

// TryBook atomically claims the slot under the write lock.
func (s *Store) TryBook(_ context.Context, id booking.SlotID, b booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := id.Key()
	if _, taken := s.slots[key]; taken {
		return booking.ErrSlotTaken
	}
	s.slots[key] = b
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

// Remove deletes and returns the booking; nil if already absent.
func (s *Store) Remove(_ context.Context, id booking.SlotID) (*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := id.Key()
	b, ok := s.slots[key]
	if !ok {
		return nil, nil
	}
	delete(s.slots, key)
	return &b, nil
}

func (s *Store) Close() error { return nil }

// Len reports the number of live bookings. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}
