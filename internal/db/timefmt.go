package db

import "time"

// TimeLayout stores timestamps in UTC with fixed-width nanoseconds so that
// lexical order in SQL matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a stored timestamp. RFC3339 values written by older
// builds are accepted as well.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func secondsToDuration(sec int64) time.Duration {
	return time.Duration(sec) * time.Second
}
