package database

import "time"

// Timestamps are stored as RFC 3339 UTC text in both dialects. The format is
// fixed-width, so lexicographic comparison in SQL matches chronological order.

// FormatTime renders a timestamp for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTime reads a stored timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
