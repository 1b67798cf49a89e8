package entities

import (
	"time"

	"checkin/pkg/tz"
)

type Event struct {
	ID          string
	Name        string
	Date        time.Time
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPast reports whether the event date lies before now.
func (e *Event) IsPast(now time.Time) bool {
	return e.Date.Before(now)
}

// IsToday reports whether the event falls on the same calendar day as now in loc.
func (e *Event) IsToday(now time.Time, loc *time.Location) bool {
	return tz.SameDay(e.Date, now, loc)
}

// EventPatch carries a partial update; nil fields are left untouched.
type EventPatch struct {
	Name        *string
	Date        *time.Time
	Description *string
	IsActive    *bool
}

func (patch EventPatch) Apply(e *Event) {
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.IsActive != nil {
		e.IsActive = *patch.IsActive
	}
}

var EventSortFields = []string{"name", "date", "isActive", "createdAt", "updatedAt"}
