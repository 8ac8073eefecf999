package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_UsesBusinessZone(t *testing.T) {
	kinshasa := time.FixedZone("WAT", 3600)
	// 23:30 UTC on the 16th is already the 17th at UTC+1.
	ts := time.Date(2026, 10, 16, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), DateOf(ts, kinshasa))
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), DateOf(ts, nil))
}

func TestDaysBetween(t *testing.T) {
	d := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(d, d))
	assert.Equal(t, 3, DaysBetween(d, AddDays(d, 3)))
	assert.Equal(t, -2, DaysBetween(d, AddDays(d, -2)))
	// across the end of February
	assert.Equal(t, 1, DaysBetween(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), d))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-17")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("17/10/2026")
	assert.Error(t, err)
}

func TestMonthRange(t *testing.T) {
	m, err := ParseMonth("2026-02")
	require.NoError(t, err)

	start, end := MonthRange(m.AddDate(0, 0, 10))
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), end)
}
