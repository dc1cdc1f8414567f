package snapshot_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techcafe/reservation-engine/booking"
	"github.com/techcafe/reservation-engine/store/snapshot"
)

func testBooking() booking.Booking {
	return booking.Booking{
		BookedBy: "Ana",
		DeviceID: "abcdefghij",
		BookedAt: time.Date(2025, time.November, 3, 8, 30, 0, 0, time.UTC),
	}
}

func TestRoundTrip_AcrossRestart(t *testing.T) {
	// GIVEN: a booking persisted to the snapshot
	// WHEN: the process "restarts" (a fresh store opens the same file)
	// THEN: the identical record is returned

	path := filepath.Join(t.TempDir(), "bookings.json")
	ctx := context.Background()
	id := booking.SlotID{Date: "2025-11-03", Time: "09:15"}

	s1, err := snapshot.Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.TryBook(ctx, id, testBooking()))
	require.NoError(t, s1.Close())

	s2, err := snapshot.Open(path)
	require.NoError(t, err)
	got, err := s2.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testBooking(), *got)
}

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	s, err := snapshot.Open(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	got, err := s.Get(context.Background(), booking.SlotID{Date: "2025-11-03", Time: "09:00"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOpen_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.json")
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))
	_, err := snapshot.Open(path)
	assert.Error(t, err)
}

func TestTryBook_SecondClaimRejected(t *testing.T) {
	s, err := snapshot.Open(filepath.Join(t.TempDir(), "bookings.json"))
	require.NoError(t, err)
	ctx := context.Background()
	id := booking.SlotID{Date: "2025-11-03", Time: "09:00"}

	require.NoError(t, s.TryBook(ctx, id, testBooking()))
	err = s.TryBook(ctx, id, booking.Booking{BookedBy: "Bob", DeviceID: "dev0000002"})
	assert.ErrorIs(t, err, booking.ErrSlotTaken)

	// The loser did not overwrite.
	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.BookedBy)
}

func TestTryBook_ConcurrentOneWinner(t *testing.T) {
	s, err := snapshot.Open(filepath.Join(t.TempDir(), "bookings.json"))
	require.NoError(t, err)
	ctx := context.Background()
	id := booking.SlotID{Date: "2025-11-03", Time: "10:00"}

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.TryBook(ctx, id, testBooking())
		}()
	}
	wg.Wait()
	close(errs)

	var wins int
	for err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, booking.ErrSlotTaken)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestRemove_IdempotentAndPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.json")
	s, err := snapshot.Open(path)
	require.NoError(t, err)
	ctx := context.Background()
	id := booking.SlotID{Date: "2025-11-03", Time: "09:00"}

	require.NoError(t, s.TryBook(ctx, id, testBooking()))

	removed, err := s.Remove(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "abcdefghij", removed.DeviceID)

	// Second remove: nil, no error.
	removed, err = s.Remove(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, removed)

	// The removal reached the file: a fresh open sees an empty table.
	s2, err := snapshot.Open(path)
	require.NoError(t, err)
	got, err := s2.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListDay(t *testing.T) {
	s, err := snapshot.Open(filepath.Join(t.TempDir(), "bookings.json"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.TryBook(ctx, booking.SlotID{Date: "2025-11-03", Time: "09:00"}, testBooking()))
	require.NoError(t, s.TryBook(ctx, booking.SlotID{Date: "2025-11-03", Time: "14:30"}, testBooking()))
	require.NoError(t, s.TryBook(ctx, booking.SlotID{Date: "2025-11-04", Time: "09:00"}, testBooking()))

	day, err := s.ListDay(ctx, "2025-11-03")
	require.NoError(t, err)
	assert.Len(t, day, 2)
	assert.Contains(t, day, "09:00")
	assert.Contains(t, day, "14:30")
}

func TestSnapshotFile_IsCompleteJSON(t *testing.T) {
	// Whatever moment the file is read, it parses as a complete table.
	path := filepath.Join(t.TempDir(), "bookings.json")
	s, err := snapshot.Open(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.TryBook(ctx, booking.SlotID{Date: "2025-11-03", Time: "09:00"}, testBooking()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var table map[string]booking.Booking
	require.NoError(t, json.Unmarshal(data, &table))
	assert.Len(t, table, 1)
}
