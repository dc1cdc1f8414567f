/*
Package boltdb provides a BoltDB-backed SlotStore.

BoltDB is an embedded key/value store: all data lives in a single file and
no external database process is required, which suits kiosk deployments
where the server runs on the desk hardware itself.

Atomicity comes from Bolt's single-writer update transactions: TryBook
checks for an existing record and inserts inside one db.Update, so two
concurrent claims on the same slot serialize at the database and exactly
one succeeds. Writes are durable when Update returns.

SEE ALSO:
  - booking/store.go: Interface definition
  - store/snapshot: default JSON snapshot backend
*/
package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/techcafe/reservation-engine/booking"
)

const bucketName = "slots"

// Store implements booking.SlotStore over a Bolt database file.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path and ensures the slots
// bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("boltdb: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltdb: create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// TryBook claims the slot inside a single update transaction.
func (s *Store) TryBook(_ context.Context, id booking.SlotID, b booking.Booking) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		key := []byte(id.Key())
		if bucket.Get(key) != nil {
			return booking.ErrSlotTaken
		}
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("boltdb: marshal booking: %w", err)
		}
		return bucket.Put(key, data)
	})
}

// Get returns the live booking, or nil if the slot is free.
func (s *Store) Get(_ context.Context, id booking.SlotID) (*booking.Booking, error) {
	var b *booking.Booking
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(id.Key()))
		if v == nil {
			return nil
		}
		var decoded booking.Booking
		if err := json.Unmarshal(v, &decoded); err != nil {
			return fmt.Errorf("boltdb: unmarshal booking: %w", err)
		}
		b = &decoded
		return nil
	})
	return b, err
}

// ListDay scans keys with the date prefix. Bolt keys are byte-sorted, so
// the prefix cursor visits exactly the day's slots.
func (s *Store) ListDay(_ context.Context, date string) (map[string]booking.Booking, error) {
	out := make(map[string]booking.Booking)
	prefix := []byte(date + "_")
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketName)).Cursor()
		for k, v := c.Seek(prefix); k != nil && strings.HasPrefix(string(k), string(prefix)); k, v = c.Next() {
			var b booking.Booking
			if err := json.Unmarshal(v, &b); err != nil {
				return fmt.Errorf("boltdb: unmarshal booking: %w", err)
			}
			out[strings.TrimPrefix(string(k), string(prefix))] = b
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes and returns the booking in one update transaction; nil if
// the slot was already free.
func (s *Store) Remove(_ context.Context, id booking.SlotID) (*booking.Booking, error) {
	var b *booking.Booking
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		key := []byte(id.Key())
		v := bucket.Get(key)
		if v == nil {
			return nil
		}
		var decoded booking.Booking
		if err := json.Unmarshal(v, &decoded); err != nil {
			return fmt.Errorf("boltdb: unmarshal booking: %w", err)
		}
		b = &decoded
		return bucket.Delete(key)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
