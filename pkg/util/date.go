package util

import "time"

// TimePointer converts a time.Time to a pointer to a time.Time.
func TimePointer(t time.Time) *time.Time {
	return &t
}

// StartOfDayUTC returns midnight UTC of the day t falls on in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether t falls on Saturday or Sunday in UTC.
func IsWeekend(t time.Time) bool {
	wd := t.UTC().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
