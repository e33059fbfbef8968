package utils

import "time"

const layoutDateTime = "2006-01-02 15:04:05"

// NowUTC returns current time in UTC, truncated to the second so values
// survive a DATETIME round trip unchanged.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in UTC.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(layoutDateTime)
}
