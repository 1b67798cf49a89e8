package entities

import (
	"strings"
	"time"
)

// Participant is a registered attendee identified at the door by Barcode.
type Participant struct {
	ID          string
	Name        string
	Family      string
	Barcode     string
	Phone       string
	Email       string // empty = not provided
	City        string
	SchoolClass string
	Branch      string
	GroupType   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FullName joins first and family name.
func (p *Participant) FullName() string {
	return strings.TrimSpace(p.Name + " " + p.Family)
}

// ParticipantPatch carries a partial update; nil fields are left untouched.
type ParticipantPatch struct {
	Name        *string
	Family      *string
	Barcode     *string
	Phone       *string
	Email       *string
	City        *string
	SchoolClass *string
	Branch      *string
	GroupType   *string
}

// Apply copies the set fields of the patch onto p.
func (patch ParticipantPatch) Apply(p *Participant) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Name, patch.Name)
	set(&p.Family, patch.Family)
	set(&p.Barcode, patch.Barcode)
	set(&p.Phone, patch.Phone)
	set(&p.Email, patch.Email)
	set(&p.City, patch.City)
	set(&p.SchoolClass, patch.SchoolClass)
	set(&p.Branch, patch.Branch)
	set(&p.GroupType, patch.GroupType)
}

// ParticipantSortFields lists the fields participants may be sorted by.
var ParticipantSortFields = []string{"name", "family", "barcode", "phone", "email", "city", "groupType", "createdAt", "updatedAt"}
