package ledger_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techcafe/reservation-engine/booking"
	"github.com/techcafe/reservation-engine/ledger"
)

func testEntry(date, tm string, reason booking.Reason) booking.Entry {
	return booking.Entry{
		Slot:      booking.SlotID{Date: date, Time: tm},
		BookedBy:  "Ana",
		DeviceID:  "dev0000001",
		BookedAt:  time.Date(2025, time.November, 3, 8, 30, 0, 0, time.UTC),
		RemovedAt: time.Date(2025, time.November, 3, 9, 45, 0, 0, time.UTC),
		Reason:    reason,
		Kiosk:     false,
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestAppend_HeaderOnceThenRows(t *testing.T) {
	dir := t.TempDir()
	l, err := ledger.New(filepath.Join(dir, "ledger"))
	require.NoError(t, err)
	ctx := context.Background()

	name, err := l.Append(ctx, testEntry("2025-11-03", "09:00", booking.ReasonCancelled))
	require.NoError(t, err)
	assert.Equal(t, "bookings_2025-11-03.csv", name)

	_, err = l.Append(ctx, testEntry("2025-11-03", "09:15", booking.ReasonCompleted))
	require.NoError(t, err)

	rows := readRows(t, filepath.Join(dir, "ledger", name))
	require.Len(t, rows, 3, "header + two rows")

	assert.Equal(t, []string{"Date", "Time", "Booked By", "Device ID", "Booked At", "Updated At", "Reason", "Kiosk"}, rows[0])
	assert.Equal(t, "2025-11-03", rows[1][0])
	assert.Equal(t, "09:00", rows[1][1])
	assert.Equal(t, "Ana", rows[1][2])
	assert.Equal(t, "dev0000001", rows[1][3])
	assert.Equal(t, "cancelled", rows[1][6])
	assert.Equal(t, "no", rows[1][7])
	assert.Equal(t, "completed", rows[2][6])
}

func TestAppend_KioskFlagAndDaySplit(t *testing.T) {
	dir := t.TempDir()
	l, err := ledger.New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	e := testEntry("2025-11-03", "14:00", booking.ReasonExtracted)
	e.Kiosk = true
	_, err = l.Append(ctx, e)
	require.NoError(t, err)

	_, err = l.Append(ctx, testEntry("2025-11-04", "09:00", booking.ReasonCancelled))
	require.NoError(t, err)

	rows := readRows(t, filepath.Join(dir, "bookings_2025-11-03.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, "yes", rows[1][7])

	// The other day has its own file with its own header.
	rows = readRows(t, filepath.Join(dir, "bookings_2025-11-04.csv"))
	require.Len(t, rows, 2)
}

func TestAppend_CommasInNameStayOneField(t *testing.T) {
	dir := t.TempDir()
	l, err := ledger.New(dir)
	require.NoError(t, err)

	e := testEntry("2025-11-03", "09:00", booking.ReasonCancelled)
	e.BookedBy = `Garcia, Ana "la jefa"`
	_, err = l.Append(context.Background(), e)
	require.NoError(t, err)

	rows := readRows(t, filepath.Join(dir, "bookings_2025-11-03.csv"))
	assert.Equal(t, e.BookedBy, rows[1][2])
}

func TestList_NewestDayFirst(t *testing.T) {
	dir := t.TempDir()
	l, err := ledger.New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	for _, date := range []string{"2025-11-03", "2025-11-05", "2025-11-04"} {
		_, err := l.Append(ctx, testEntry(date, "09:00", booking.ReasonCancelled))
		require.NoError(t, err)
	}
	// A stray file is ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	files, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "2025-11-05", files[0].Date)
	assert.Equal(t, "2025-11-04", files[1].Date)
	assert.Equal(t, "2025-11-03", files[2].Date)
	assert.Greater(t, files[0].Size, int64(0))
}
