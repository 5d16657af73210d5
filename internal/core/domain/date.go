package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the wire format for dates (ISO-8601, day granularity).
const DateFormat = "2006-01-02"

// Date represents a calendar date with day-level granularity.
// The zero value means "no date".
type Date struct {
	t time.Time
}

// NewDate returns a normalized Date for the given year, month and day.
// Out-of-range values roll over the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to midnight UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO-8601 date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// IsZero reports whether d is the "no date" value.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns the canonical representation of the date (midnight UTC).
func (d Date) Time() time.Time { return d.t }

// Year returns the year of the date.
func (d Date) Year() int { return d.t.Year() }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.t.Month() }

// Day returns the day of the month.
func (d Date) Day() int { return d.t.Day() }

// AddDays returns a new Date the given number of days later.
func (d Date) AddDays(n int) Date {
	return NewDate(d.Year(), d.Month(), d.Day()+n)
}

// Before reports whether d is before x.
func (d Date) Before(x Date) bool { return d.t.Before(x.t) }

// After reports whether d is after x.
func (d Date) After(x Date) bool { return d.t.After(x.t) }

// Equal reports whether d and x are the same day.
func (d Date) Equal(x Date) bool { return d.t.Equal(x.t) }

// String returns the date in ISO-8601 format, or "" for the zero value.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateFormat)
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or "" for the zero value.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD", "" and null, the last two yielding the
// zero value.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
