package utils

import (
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
	layoutMonth    = "January 2006"
)

const day = 24 * time.Hour

// Clock lets services take "now" as a dependency.
type Clock func() time.Time

// Now returns c() or time.Now when c is nil.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// DaysBetween returns the whole days from `from` to `to`, floored toward the
// earlier instant: 1.5 days is 1, -0.5 days is -1.
func DaysBetween(from, to time.Time) int {
	d := to.Sub(from)
	days := d / day
	if d < 0 && d%day != 0 {
		days--
	}
	return int(days)
}

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// ParseDateTime parses "YYYY-MM-DD HH:MM:SS" in local timezone.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDateTime, strings.TrimSpace(s), time.Local)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}

// MonthKey is the revenue bucket label, e.g. "October 2026".
func MonthKey(t time.Time) string {
	return t.Format(layoutMonth)
}
