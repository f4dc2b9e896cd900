package api

import "time"

// timestampLayout is the provider's fixed 14-digit timestamp format.
const timestampLayout = "20060102150405"

// FormatTimestamp renders t in the provider's YYYYMMDDHHMMSS layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// ParseTimestamp parses a YYYYMMDDHHMMSS timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}
