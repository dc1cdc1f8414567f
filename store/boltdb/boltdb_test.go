package boltdb_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/techcafe/reservation-engine/booking"
	"github.com/techcafe/reservation-engine/store/boltdb"
)

func openTestStore(t *testing.T) *boltdb.Store {
	t.Helper()
	s, err := boltdb.Open(filepath.Join(t.TempDir(), "bookings.bolt"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testBooking(device string) booking.Booking {
	return booking.Booking{
		BookedBy: "Ana",
		DeviceID: device,
		BookedAt: time.Date(2025, time.November, 3, 8, 30, 0, 0, time.UTC).Local(),
	}
}

func TestTryBook_GetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id := booking.SlotID{Date: "2025-11-03", Time: "09:15"}

	if err := s.TryBook(ctx, id, testBooking("dev0000001")); err != nil {
		t.Fatalf("TryBook: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.DeviceID != "dev0000001" || got.BookedBy != "Ana" {
		t.Fatalf("wrong booking: %+v", got)
	}
	if !got.BookedAt.Equal(testBooking("dev0000001").BookedAt) {
		t.Fatalf("BookedAt lost in round trip: %v", got.BookedAt)
	}
}

func TestTryBook_OccupiedSlotRejected(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id := booking.SlotID{Date: "2025-11-03", Time: "09:00"}

	if err := s.TryBook(ctx, id, testBooking("dev0000001")); err != nil {
		t.Fatalf("first TryBook: %v", err)
	}
	err := s.TryBook(ctx, id, testBooking("dev0000002"))
	if !errors.Is(err, booking.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	// Loser must not have overwritten.
	got, _ := s.Get(ctx, id)
	if got.DeviceID != "dev0000001" {
		t.Fatalf("booking overwritten: %+v", got)
	}
}

func TestRemove_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id := booking.SlotID{Date: "2025-11-03", Time: "14:00"}

	if err := s.TryBook(ctx, id, testBooking("dev0000001")); err != nil {
		t.Fatalf("TryBook: %v", err)
	}

	removed, err := s.Remove(ctx, id)
	if err != nil || removed == nil {
		t.Fatalf("Remove: %v, %v", removed, err)
	}
	removed, err = s.Remove(ctx, id)
	if err != nil {
		t.Fatalf("second Remove errored: %v", err)
	}
	if removed != nil {
		t.Fatalf("second Remove returned a record: %+v", removed)
	}
}

func TestListDay_PrefixScan(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	slots := []booking.SlotID{
		{Date: "2025-11-03", Time: "09:00"},
		{Date: "2025-11-03", Time: "17:45"},
		{Date: "2025-11-04", Time: "09:00"},
	}
	for i, id := range slots {
		if err := s.TryBook(ctx, id, testBooking("dev000000"+string(rune('1'+i)))); err != nil {
			t.Fatalf("TryBook %v: %v", id, err)
		}
	}

	day, err := s.ListDay(ctx, "2025-11-03")
	if err != nil {
		t.Fatalf("ListDay: %v", err)
	}
	if len(day) != 2 {
		t.Fatalf("len = %d, want 2", len(day))
	}
	if day["09:00"].DeviceID != "dev0000001" || day["17:45"].DeviceID != "dev0000002" {
		t.Fatalf("wrong day map: %+v", day)
	}
}

func TestPersistence_AcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bookings.bolt")
	ctx := context.Background()
	id := booking.SlotID{Date: "2025-11-03", Time: "09:15"}

	s, err := boltdb.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.TryBook(ctx, id, testBooking("abcdefghij")); err != nil {
		t.Fatalf("TryBook: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := boltdb.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Get(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("Get after reopen: %v, %v", got, err)
	}
	if got.DeviceID != "abcdefghij" {
		t.Fatalf("wrong booking after reopen: %+v", got)
	}
}
