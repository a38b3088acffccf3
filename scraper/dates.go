package scraper

import (
	"time"
)

// DateLayout is the format of sitting dates returned by the API
const DateLayout = "2006-01-02"

// Today truncates now to its calendar date, expressed at midnight UTC so it
// compares cleanly with parsed sitting dates.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidDate reports whether date is a YYYY-MM-DD string
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// IsFuture reports whether date is strictly after the calendar day of today.
// Malformed dates are never future.
func IsFuture(date string, today time.Time) bool {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	return d.After(Today(today))
}

// SplitDates partitions dates into past (today included) and future, keeping order
func SplitDates(dates []string, today time.Time) (past, future []string) {
	for _, date := range dates {
		if IsFuture(date, today) {
			future = append(future, date)
		} else {
			past = append(past, date)
		}
	}
	return past, future
}

// AllFuture reports whether there is at least one date and every date is future
func AllFuture(dates []string, today time.Time) bool {
	if len(dates) == 0 {
		return false
	}
	_, future := SplitDates(dates, today)
	return len(future) == len(dates)
}
