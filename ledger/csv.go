/*
csv.go - Per-day CSV audit ledger

PURPOSE:
  Durable, append-only audit trail. One file per calendar day
  (bookings_YYYY-MM-DD.csv), created with a header row on first write, one
  row appended per transition. Files are never rewritten: this is a
  write-once-per-row log, not a database.

DURABILITY:
  Each Append opens the file O_APPEND, writes the row, flushes the csv
  writer, and fsyncs before returning. A successful Append means the row is
  on disk, which is what lets the engine delete the booking afterwards.

SINGLE WRITER:
  One mutex serializes all appends. A day file is a single-writer-at-a-time
  resource; interleaved writes from two goroutines would corrupt rows.

SEE ALSO:
  - booking/ledger.go: the contract and the append-then-delete ordering
*/
package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/techcafe/reservation-engine/booking"
)

const (
	filePrefix = "bookings_"
	fileSuffix = ".csv"
)

var header = []string{"Date", "Time", "Booked By", "Device ID", "Booked At", "Updated At", "Reason", "Kiosk"}

// CSV writes audit rows to per-day CSV files under Dir.
type CSV struct {
	Dir string

	mu sync.Mutex
}

// New returns a CSV ledger rooted at dir, creating it if needed.
func New(dir string) (*CSV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ledger: create dir: %w", err)
	}
	return &CSV{Dir: dir}, nil
}

// FileName returns the ledger file name for a day.
func FileName(date string) string {
	return filePrefix + date + fileSuffix
}

// Append writes one row to the entry's day file. The header is written
// only when the file is created. Returns the file name the row landed in.
func (l *CSV) Append(_ context.Context, e booking.Entry) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	name := FileName(e.Slot.Date)
	path := filepath.Join(l.Dir, name)

	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("ledger: open %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return "", fmt.Errorf("ledger: write header: %w", err)
		}
	}

	kiosk := "no"
	if e.Kiosk {
		kiosk = "yes"
	}
	row := []string{
		e.Slot.Date,
		e.Slot.Time,
		e.BookedBy,
		e.DeviceID,
		e.BookedAt.Format(time.RFC3339),
		e.RemovedAt.Format(time.RFC3339),
		string(e.Reason),
		kiosk,
	}
	if err := w.Write(row); err != nil {
		return "", fmt.Errorf("ledger: write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("ledger: flush: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("ledger: sync: %w", err)
	}
	return name, nil
}

// List returns the existing ledger files, newest day first. Files whose
// names do not carry a parseable date sort last.
func (l *CSV) List(_ context.Context) ([]booking.LedgerFile, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("ledger: read dir: %w", err)
	}

	var files []booking.LedgerFile
	for _, de := range entries {
		name := de.Name()
		if de.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		date := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		if _, err := time.Parse(booking.DateFormat, date); err != nil {
			date = ""
		}
		files = append(files, booking.LedgerFile{
			Name:     name,
			Size:     info.Size(),
			Modified: info.ModTime(),
			Date:     date,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Date > files[j].Date })
	return files, nil
}
