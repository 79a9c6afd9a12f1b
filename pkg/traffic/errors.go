package traffic

import "errors"

var (
	// ErrNotFound covers unknown stations, sections and train schedules.
	ErrNotFound = errors.New("not found")

	// ErrMalformedSchedule is returned when a timetable payload has no stop
	// list. Callers aggregating many trains treat it like ErrNotFound.
	ErrMalformedSchedule = errors.New("malformed schedule")

	// ErrUpstreamUnavailable wraps transport level failures talking to the
	// live feed.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
