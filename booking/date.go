package booking

import (
	"time"
)

// =============================================================================
// DATE - Opaque calendar-day token ("YYYY-MM-DD")
// =============================================================================

// Date is a calendar day in "2006-01-02" form. It has no time component and
// no timezone; equality and capacity grouping treat it as an opaque token.
// Only the weekly quota window parses it, and a token that fails to parse is
// simply outside every window.
//
// Lexicographic order of well-formed tokens is chronological order, which is
// what list-all sorting relies on.
type Date string

const dayLayout = "2006-01-02"

// NewDate returns the Date token for the UTC day of t.
func NewDate(t time.Time) Date {
	return Date(t.UTC().Format(dayLayout))
}

func (d Date) String() string { return string(d) }

// Day parses the token as a UTC calendar day. ok is false for malformed
// tokens; callers must skip those, not error out.
func (d Date) Day() (time.Time, bool) {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// InWindow reports whether the day lies in [start, end). Malformed tokens are
// never in any window.
func (d Date) InWindow(start, end time.Time) bool {
	day, ok := d.Day()
	if !ok {
		return false
	}
	return !day.Before(start) && day.Before(end)
}

// DayOf truncates an instant to its UTC calendar day (midnight).
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Window returns the rolling quota window anchored at the UTC day of ref:
// [start of that day, start + days). Inclusive start, exclusive end.
func Window(ref time.Time, days int) (start, end time.Time) {
	start = DayOf(ref)
	end = start.AddDate(0, 0, days)
	return start, end
}
