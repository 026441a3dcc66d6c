// Package clock maps wall-clock dates to week numbers within a cycle's
// fixed 84-day span.
package clock

import (
	"fmt"
	"math"
	"time"
)

const (
	// DateFormat is the storage format for calendar dates.
	DateFormat = "2006-01-02"
	// WeeksPerCycle is the fixed number of weeks in a cycle.
	WeeksPerCycle = 12
	// CycleDays is the fixed cycle length in days.
	CycleDays = 84
	// WeekComplete is the sentinel week number for a finished cycle.
	WeekComplete = 13
)

// CurrentWeek returns the 1-based week number of now within a cycle starting
// at startDate: 0 before the start, 1-12 while in progress, 13 once the cycle
// is complete. Elapsed time is measured in local calendar days.
func CurrentWeek(startDate string, now time.Time) (int, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return 0, err
	}

	days := daysBetween(start, now)
	if days < 0 {
		return 0, nil
	}

	week := days/7 + 1
	if week > WeekComplete {
		week = WeekComplete
	}
	return week, nil
}

// EndDate returns the cycle end date, 83 days after the start.
func EndDate(startDate string) (string, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return "", err
	}
	return start.AddDate(0, 0, CycleDays-1).Format(DateFormat), nil
}

// ParseDate parses a YYYY-MM-DD date at local midnight.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, dateStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return t, nil
}

// Today returns the current local date in storage format.
func Today() string {
	return time.Now().Format(DateFormat)
}

// TodayKeyIndex returns the Sunday-first day slot for the current local day.
func TodayKeyIndex(now time.Time) int {
	return int(now.Weekday())
}

// daysBetween counts whole local calendar days from a (at local midnight) to b.
// Both ends are truncated to their local date; rounding absorbs DST-shortened
// or -lengthened days so a week boundary never drifts by an hour.
func daysBetween(a, b time.Time) int {
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.Local)
	return int(math.Round(b.Sub(a).Hours() / 24))
}
