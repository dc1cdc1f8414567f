/*
types.go - Core domain types for the slot reservation engine

PURPOSE:
  Defines the value types the whole system is built on: the SlotID that
  identifies a bookable interval, the Booking record that occupies it, and
  the Actor that requests changes to it.

SLOT IDENTITY:
  The canonical model is the (date, time) pair. The string key
  "{date}_{time}" used by the stores is a derived representation: Key()
  produces it, ParseSlotKey recovers the pair. The date format (2006-01-02)
  and time format (15:04) can never contain the underscore delimiter, so the
  derivation is lossless in both directions.

BOOKING IMMUTABILITY:
  A Booking is never edited in place. Changing a reservation is modeled as
  cancel-then-rebook. The only mutation a Booking ever sees is its removal
  from the store, which always produces a ledger entry first.

SEE ALSO:
  - store.go: SlotStore contract keyed by SlotID
  - authorize.go: rules an Actor must pass to destroy a Booking
*/
package booking

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// SLOT IDENTITY
// =============================================================================

const (
	// DateFormat is the wire and storage format for slot dates.
	DateFormat = "2006-01-02"
	// TimeFormat is the wire and storage format for slot times.
	TimeFormat = "15:04"
	// keyDelimiter joins date and time into a store key. Neither format
	// produces this character, so splitting on it is always unambiguous.
	keyDelimiter = "_"
)

// SlotID identifies one bookable 15-minute interval.
type SlotID struct {
	Date string // "2006-01-02"
	Time string // "15:04", on the 15-minute grid
}

// Key derives the store's primary key from the pair.
func (s SlotID) Key() string {
	return s.Date + keyDelimiter + s.Time
}

func (s SlotID) String() string { return s.Key() }

// ParseSlotKey recovers the (date, time) pair from a derived key.
// The formats of both fields are validated so a malformed key cannot
// round-trip into a SlotID that Key() would render differently.
func ParseSlotKey(key string) (SlotID, error) {
	date, tm, ok := strings.Cut(key, keyDelimiter)
	if !ok {
		return SlotID{}, fmt.Errorf("%w: slot key %q has no delimiter", ErrInvalidFormat, key)
	}
	id := SlotID{Date: date, Time: tm}
	if err := id.Validate(); err != nil {
		return SlotID{}, err
	}
	return id, nil
}

// Validate checks both fields against their exact formats and the
// 15-minute grid. It does not consult the calendar; whether the time falls
// inside business hours is the engine's concern.
func (s SlotID) Validate() error {
	d, err := time.Parse(DateFormat, s.Date)
	if err != nil || d.Format(DateFormat) != s.Date {
		return fmt.Errorf("%w: date %q is not %s", ErrInvalidFormat, s.Date, DateFormat)
	}
	t, err := time.Parse(TimeFormat, s.Time)
	if err != nil || t.Format(TimeFormat) != s.Time {
		return fmt.Errorf("%w: time %q is not %s", ErrInvalidFormat, s.Time, TimeFormat)
	}
	if t.Minute()%15 != 0 {
		return fmt.Errorf("%w: time %q is off the 15-minute grid", ErrInvalidFormat, s.Time)
	}
	return nil
}

// =============================================================================
// BOOKING RECORD
// =============================================================================

// Booking limits, enforced at the boundary before a record reaches the core.
const (
	MinBookedByLen = 1
	MaxBookedByLen = 50
	MinDeviceIDLen = 10
	MaxDeviceIDLen = 100
)

// Booking is the reservation occupying one SlotID. Immutable once created;
// there is no in-place edit path anywhere in the system.
type Booking struct {
	BookedBy string    `json:"username"`
	DeviceID string    `json:"device_id"`
	BookedAt time.Time `json:"booked_at"`
	Kiosk    bool      `json:"kiosk,omitempty"`
}

// ValidateBookedBy checks the display-name length bounds. Content is
// deliberately unrestricted: masking is a display concern, not a storage one.
func ValidateBookedBy(name string) error {
	if n := len(name); n < MinBookedByLen || n > MaxBookedByLen {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidFormat, MinBookedByLen, MaxBookedByLen)
	}
	return nil
}

// ValidateDeviceID checks the opaque device token. Possession of the token
// is the capability that authorizes self-cancellation, so a malformed token
// is rejected before it can ever claim a slot.
func ValidateDeviceID(id string) error {
	if n := len(id); n < MinDeviceIDLen || n > MaxDeviceIDLen {
		return fmt.Errorf("%w: device_id must be %d-%d characters", ErrInvalidFormat, MinDeviceIDLen, MaxDeviceIDLen)
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return fmt.Errorf("%w: device_id contains invalid character %q", ErrInvalidFormat, c)
		}
	}
	return nil
}

// =============================================================================
// ACTOR AND ACTIONS
// =============================================================================

// Actor identifies who is requesting a destructive action.
type Actor struct {
	DeviceID string
	IsAdmin  bool
}

// Action is a destructive operation against a live booking.
type Action string

const (
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
	ActionExtract  Action = "extract"
)

// =============================================================================
// REMOVAL REASONS
// =============================================================================

// Reason records why a booking entered the audit ledger.
type Reason string

const (
	ReasonBooked    Reason = "booked"
	ReasonCancelled Reason = "cancelled"
	ReasonCompleted Reason = "completed"
	ReasonExtracted Reason = "extracted"
)

// ValidReason reports whether r is one of the ledger reason values.
func ValidReason(r Reason) bool {
	switch r {
	case ReasonBooked, ReasonCancelled, ReasonCompleted, ReasonExtracted:
		return true
	}
	return false
}
