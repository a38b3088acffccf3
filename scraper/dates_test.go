package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestToday(t *testing.T) {
	warsaw := time.FixedZone("CET", 3600)
	now := time.Date(2024, 1, 10, 23, 30, 0, 0, warsaw)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Today(now))
}

func TestIsFuture(t *testing.T) {
	today := mustDate(t, "2024-01-10")

	tests := []struct {
		date string
		want bool
	}{
		{"2024-01-09", false},
		{"2024-01-10", false},
		{"2024-01-11", true},
		{"2025-01-01", true},
		{"10.01.2024", false},
		{"", false},
		{"2024-13-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFuture(tt.date, today))
		})
	}

	// The time of day in today does not matter.
	assert.False(t, IsFuture("2024-01-10", today.Add(23*time.Hour)))
}

func TestSplitDates(t *testing.T) {
	today := mustDate(t, "2024-01-10")

	past, future := SplitDates([]string{"2024-01-10", "2024-01-11"}, today)
	assert.Equal(t, []string{"2024-01-10"}, past)
	assert.Equal(t, []string{"2024-01-11"}, future)

	past, future = SplitDates([]string{"2024-01-12", "bad", "2024-01-01"}, today)
	assert.Equal(t, []string{"bad", "2024-01-01"}, past)
	assert.Equal(t, []string{"2024-01-12"}, future)

	past, future = SplitDates(nil, today)
	assert.Empty(t, past)
	assert.Empty(t, future)
}

func TestAllFuture(t *testing.T) {
	today := mustDate(t, "2024-01-10")

	assert.True(t, AllFuture([]string{"2024-01-11", "2024-01-12"}, today))
	assert.False(t, AllFuture([]string{"2024-01-10", "2024-01-11"}, today))
	assert.False(t, AllFuture(nil, today))
	assert.False(t, AllFuture([]string{"garbage"}, today))
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2024-02-29"))
	assert.False(t, ValidDate("2023-02-29"))
	assert.False(t, ValidDate("2024/01/10"))
}
