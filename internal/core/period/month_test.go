package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthAt_ClipsToLastDay(t *testing.T) {
	tests := []struct {
		name    string
		month   Month
		day     int
		wantDay int
	}{
		{"regular day", New(2026, time.March), 15, 15},
		{"day 31 in a 30-day month", New(2026, time.April), 31, 30},
		{"day 31 in february", New(2026, time.February), 31, 28},
		{"leap february keeps 29", New(2028, time.February), 29, 29},
		{"day below one becomes one", New(2026, time.June), 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.month.At(tt.day)
			assert.Equal(t, tt.wantDay, got.Day())
			assert.Equal(t, tt.month.Month, got.Month())
			assert.Equal(t, tt.month.Year, got.Year())
		})
	}
}

func TestMonthAddMonths(t *testing.T) {
	m := New(2026, time.November)

	assert.Equal(t, New(2026, time.December), m.AddMonths(1))
	assert.Equal(t, New(2027, time.January), m.AddMonths(2))
	assert.Equal(t, New(2025, time.November), m.AddMonths(-12))
}

func TestMonthBounds(t *testing.T) {
	m := New(2026, time.February)

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), m.Start())
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), m.End())
	assert.Equal(t, 28, m.Days())
}

func TestMonthContains(t *testing.T) {
	m := New(2026, time.May)

	assert.True(t, m.Contains(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, m.Contains(time.Date(2026, 5, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, m.Contains(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, m.Contains(time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)))
}

func TestMonthOrdering(t *testing.T) {
	earlier := New(2026, time.March)
	later := New(2027, time.January)

	assert.True(t, later.After(earlier))
	assert.True(t, earlier.Before(later))
	assert.False(t, earlier.After(earlier))
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	in := time.Date(2026, 8, 31, 22, 15, 44, 123, loc)

	got := DateOnly(in)

	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), got)
}

func TestMonthString(t *testing.T) {
	assert.Equal(t, "2026-03", New(2026, time.March).String())
	assert.Equal(t, "March 2026", New(2026, time.March).Label())
}
