package tz

import (
	"fmt"
	"time"
)

// DefaultZone is the IANA zone events are held in unless configured otherwise.
const DefaultZone = "Asia/Jerusalem"

// Load resolves an IANA zone name; an empty name means DefaultZone.
func Load(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}

// SameDay reports whether a and b fall on the same calendar day in loc.
// A nil loc means UTC.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
