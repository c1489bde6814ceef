// clock.go: calendar helpers for the reference time zone.
// Every "today"/"yesterday" decision in the tracker goes through these,
// so the day boundary is consistent across the reconciler and the evaluator.
package common

import "time"

// LoadZone loads the reference time zone by IANA name.
// Falls back to a fixed UTC-4 offset when tzdata is unavailable.
func LoadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.FixedZone("CLT", -4*60*60)
	}
	return loc
}

// DayOf truncates t to midnight in loc. The returned value is the
// canonical representation of a calendar day everywhere in the tracker.
func DayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// AsDay reinterprets t's calendar date as midnight in loc. Date columns
// scan as UTC midnights; converting such a value by instant would land it
// on the previous local day anywhere west of UTC, so the date components
// are read in t's own location.
func AsDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b represent the same calendar day.
// Works for both locally-built midnights and scanned date columns.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return AsDay(a, loc).Equal(AsDay(b, loc))
}

// FormatDay renders a day as YYYY-MM-DD for logs and API payloads.
func FormatDay(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDay parses a YYYY-MM-DD value into a midnight time in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, loc)
}
