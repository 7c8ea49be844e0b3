// Package period provides calendar-month bucketing used by balance
// reconstruction, cash projection and the financial calendar.
package period

import (
	"fmt"
	"time"
)

// Month identifies one calendar month (year + month), independent of day
// and timezone. Construct via MonthOf or New.
type Month struct {
	Year  int
	Month time.Month
}

// New creates a Month from a year and month number.
func New(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// MonthOf returns the Month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// AddMonths returns the month n months after m (n may be negative).
func (m Month) AddMonths(n int) Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return MonthOf(t)
}

// Next returns the following month.
func (m Month) Next() Month {
	return m.AddMonths(1)
}

// Start returns the first day of the month as a date (midnight UTC).
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the month as a date (midnight UTC).
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return m.End().Day()
}

// At returns the given day of the month as a date. Days past the end of
// the month are clipped to the last day (e.g. day 31 in April -> April 30).
func (m Month) At(day int) time.Time {
	if day < 1 {
		day = 1
	}
	if max := m.Days(); day > max {
		day = max
	}
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether the date t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// After reports whether m is strictly after other.
func (m Month) After(other Month) bool {
	if m.Year != other.Year {
		return m.Year > other.Year
	}
	return m.Month > other.Month
}

// Before reports whether m is strictly before other.
func (m Month) Before(other Month) bool {
	return other.After(m)
}

// String returns the month in YYYY-MM form.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label returns a human-readable month reference, e.g. "January 2026".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Month.String(), m.Year)
}

// DateOnly truncates t to a date at midnight UTC. All due/issue/payment
// dates in the engine are normalized through this before comparison.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
