// Package schedtime holds the clock arithmetic used to turn timetable
// entries into delay-adjusted estimates.
//
// The live feed only carries a time of day. Trains running across midnight
// are placed on the right calendar day by comparing the estimate with the
// current wall clock.
package schedtime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/trainboard/trainboard/pkg/traffic"
	"github.com/trainboard/trainboard/pkg/util"
)

var ErrInvalidClock = errors.New("invalid clock time")

const (
	minutesPerDay = 24 * 60

	// Hours before this are treated as the tail end of the previous
	// operating day.
	lateNightEndHour = 4
	// Hours from this onwards are treated as the evening of an operating day.
	eveningStartHour = 18
)

// ParseClock parses a zero-padded 24 hour HH:MM value. Hours past 23 are
// accepted as some timetables run on past midnight.
func ParseClock(clock string) (int, int, error) {
	hourString, minuteString, found := strings.Cut(clock, ":")
	if !found || len(minuteString) != 2 || hourString == "" {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}

	hour, err := strconv.Atoi(hourString)
	if err != nil || hour < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	minute, err := strconv.Atoi(minuteString)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}

	return hour, minute, nil
}

func FormatClock(hour int, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// Estimate applies delayMinutes to a scheduled HH:MM value and wraps the
// result around midnight. An empty or unparsable schedule time yields
// traffic.NoTime.
func Estimate(scheduledTime string, delayMinutes int) string {
	if scheduledTime == "" {
		return traffic.NoTime
	}

	hour, minute, err := ParseClock(scheduledTime)
	if err != nil {
		return traffic.NoTime
	}

	if delayMinutes < 0 {
		delayMinutes = 0
	}

	total := (hour*60 + minute + delayMinutes) % minutesPerDay

	return FormatClock(total/60, total%60)
}

// ResolveCalendarDay places estimatedTime on the calendar day it most likely
// belongs to relative to now, and returns the resulting instant in now's
// location.
//
//	now in [00:00, 04:00) and estimate >= 18:00  -> previous day
//	now >= 18:00 and estimate in [00:00, 04:00)  -> next day
//	anything else                                -> same day
func ResolveCalendarDay(estimatedTime string, now time.Time) (time.Time, error) {
	hour, minute, err := ParseClock(estimatedTime)
	if err != nil {
		return time.Time{}, err
	}
	hour %= 24

	offset := 0
	switch {
	case now.Hour() < lateNightEndHour && hour >= eveningStartHour:
		offset = -1
	case now.Hour() >= eveningStartHour && hour < lateNightEndHour:
		offset = 1
	}

	day := util.StartOfDay(now).AddDate(0, 0, offset)

	return util.AddClockToDate(day, hour, minute), nil
}
