package util

import (
	"time"
)

// AddClockToDate returns the instant on date's calendar day at the given
// hour and minute, in date's location.
func AddClockToDate(date time.Time, hour int, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
