package utils

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the wire format of calendar dates (check-in, tee date).
const DateLayout = "2006-01-02"

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}

// TruncateDate drops the time-of-day part, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a date in DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// GenerateReservationCode creates a human readable reservation reference.
// Format: GB-YYYYMMDD-<first 8 hex chars of the id>
func GenerateReservationCode(now time.Time, idHex string) string {
	if len(idHex) > 8 {
		idHex = idHex[:8]
	}
	return fmt.Sprintf("GB-%s-%s", now.UTC().Format("20060102"), idHex)
}
