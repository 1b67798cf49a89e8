package tz

import (
	"fmt"
	"strings"
	"time"
)

// Layouts without an offset are read as wall-clock time in the event zone.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseEventDate parses an event date sent by a client. RFC 3339 values keep
// their offset; date-only and offset-less values are interpreted in loc.
func ParseEventDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("tz: empty date")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("tz: invalid date %q (expected RFC 3339 or YYYY-MM-DD[THH:MM])", s)
}
