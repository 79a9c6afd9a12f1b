package traffic

import "time"

const timestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders feed timestamps as YYYY-MM-DD HH:MM:SS.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return UnknownTimestamp
	}

	return t.Format(timestampLayout)
}
