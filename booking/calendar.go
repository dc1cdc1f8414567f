/*
calendar.go - Slot grid and business-day generation

PURPOSE:
  Pure, stateless calendar computation the engine consumes: which times of
  day are bookable, and which dates are open for booking. No persistence,
  no locking; every call recomputes from the clock so "today" is always the
  time of the call.

GRID:
  15-minute slots from opening (09:00) to closing (18:00), excluding the
  midday gap (12:00-14:00). 12 morning slots + 16 afternoon slots = 28.

BUSINESS DAYS:
  BusinessDays(n) yields exactly n dates starting from the current date,
  skipping Saturdays and Sundays.
*/
package booking

import "time"

// =============================================================================
// CALENDAR
// =============================================================================

// Calendar generates the valid slot times and bookable dates. The zero
// value is not usable; construct with NewCalendar.
type Calendar struct {
	OpenHour  int
	GapStart  int
	GapEnd    int
	CloseHour int
	Interval  time.Duration

	// Now supplies the clock. Tests pin it; production uses time.Now.
	Now func() time.Time
}

// NewCalendar returns the service-desk calendar: open 09:00-18:00 with a
// 12:00-14:00 midday gap, on a 15-minute grid.
func NewCalendar() *Calendar {
	return &Calendar{
		OpenHour:  9,
		GapStart:  12,
		GapEnd:    14,
		CloseHour: 18,
		Interval:  15 * time.Minute,
		Now:       time.Now,
	}
}

// TimeSlots returns every bookable time of day, in order.
func (c *Calendar) TimeSlots() []string {
	var slots []string
	slots = c.appendWindow(slots, c.OpenHour, c.GapStart)
	slots = c.appendWindow(slots, c.GapEnd, c.CloseHour)
	return slots
}

// MorningSlots returns the slots before the midday gap.
func (c *Calendar) MorningSlots() []string {
	return c.appendWindow(nil, c.OpenHour, c.GapStart)
}

// AfternoonSlots returns the slots after the midday gap.
func (c *Calendar) AfternoonSlots() []string {
	return c.appendWindow(nil, c.GapEnd, c.CloseHour)
}

func (c *Calendar) appendWindow(slots []string, fromHour, toHour int) []string {
	day := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	cur := day.Add(time.Duration(fromHour) * time.Hour)
	end := day.Add(time.Duration(toHour) * time.Hour)
	for cur.Before(end) {
		slots = append(slots, cur.Format(TimeFormat))
		cur = cur.Add(c.Interval)
	}
	return slots
}

// ValidSlotTime reports whether t is one of the calendar's bookable times.
func (c *Calendar) ValidSlotTime(t string) bool {
	for _, s := range c.TimeSlots() {
		if s == t {
			return true
		}
	}
	return false
}

// =============================================================================
// BUSINESS DAYS
// =============================================================================

// Day is one bookable date with its display strings for the UI.
type Day struct {
	Date    string `json:"date"`    // "2006-01-02"
	Display string `json:"display"` // e.g. "03 (Mon)<br>Nov 25"
	Short   string `json:"short"`   // e.g. "Mon Nov"
}

// BusinessDays returns the next count weekdays starting from today.
// A weekend "today" is skipped, not included.
func (c *Calendar) BusinessDays(count int) []Day {
	days := make([]Day, 0, count)
	cur := c.Now()
	for len(days) < count {
		if wd := cur.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, Day{
				Date:    cur.Format(DateFormat),
				Display: cur.Format("02 (Mon)") + "<br>" + cur.Format("Jan 06"),
				Short:   cur.Format("Mon Jan"),
			})
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return days
}

// BookableDate reports whether date is among the next count business days.
func (c *Calendar) BookableDate(date string, count int) bool {
	for _, d := range c.BusinessDays(count) {
		if d.Date == date {
			return true
		}
	}
	return false
}
