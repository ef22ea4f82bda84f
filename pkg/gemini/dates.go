package gemini

import (
	"fmt"
	"time"
)

const dateLayout = "20060102"

// DateToUnix converts a YYYYMMDD date to unix seconds at local midnight.
func DateToUnix(date string) (int64, error) {
	return DateToUnixIn(date, time.Local)
}

// DateToUnixIn converts a YYYYMMDD date to unix seconds at midnight in loc.
func DateToUnixIn(date string, loc *time.Location) (int64, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q, want YYYYMMDD: %w", date, err)
	}
	return t.Unix(), nil
}
