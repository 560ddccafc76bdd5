package repository

import (
	"fmt"
	"time"
)

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
// Dates are stored day-precision; timestamps fall back to RFC3339.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// dateKey formats a time for day-precision storage columns.
func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// timestamp formats a time for DATETIME storage columns.
func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
