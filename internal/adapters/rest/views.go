package rest

import (
	"time"

	"checkin/internal/domain/entities"
	"checkin/internal/domain/stats"
)

type participantView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Family      string    `json:"family"`
	FullName    string    `json:"fullName"`
	Barcode     string    `json:"barcode"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	City        string    `json:"city,omitempty"`
	SchoolClass string    `json:"schoolClass,omitempty"`
	Branch      string    `json:"branch,omitempty"`
	GroupType   string    `json:"groupType"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newParticipantView(p entities.Participant) participantView {
	return participantView{
		ID:          p.ID,
		Name:        p.Name,
		Family:      p.Family,
		FullName:    p.FullName(),
		Barcode:     p.Barcode,
		Phone:       p.Phone,
		Email:       p.Email,
		City:        p.City,
		SchoolClass: p.SchoolClass,
		Branch:      p.Branch,
		GroupType:   p.GroupType,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type eventView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	IsPast      bool      `json:"isPast"`
	IsToday     bool      `json:"isToday"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// eventView derives isPast and isToday at serialization time.
func (h *Handler) eventView(e entities.Event) eventView {
	now := h.now()
	return eventView{
		ID:          e.ID,
		Name:        e.Name,
		Date:        e.Date,
		Description: e.Description,
		IsActive:    e.IsActive,
		IsPast:      e.IsPast(now),
		IsToday:     e.IsToday(now, h.loc),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// userView never carries the password hash.
type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserView(u entities.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type entryView struct {
	ID            string           `json:"id"`
	ParticipantID string           `json:"participantId"`
	EventID       string           `json:"eventId"`
	ScannerID     string           `json:"scannerId"`
	EntryTime     time.Time        `json:"entryTime"`
	Method        string           `json:"method"`
	CreatedAt     time.Time        `json:"createdAt"`
	Participant   *participantView `json:"participant,omitempty"`
	Event         *eventView       `json:"event,omitempty"`
	Scanner       *userView        `json:"scanner,omitempty"`
}

func (h *Handler) entryView(d entities.EntryDetails) entryView {
	v := entryView{
		ID:            d.ID,
		ParticipantID: d.ParticipantID,
		EventID:       d.EventID,
		ScannerID:     d.ScannerID,
		EntryTime:     d.EntryTime,
		Method:        string(d.Method),
		CreatedAt:     d.CreatedAt,
	}
	if d.Participant != nil {
		p := newParticipantView(*d.Participant)
		v.Participant = &p
	}
	if d.Event != nil {
		e := h.eventView(*d.Event)
		v.Event = &e
	}
	if d.Scanner != nil {
		u := newUserView(*d.Scanner)
		v.Scanner = &u
	}
	return v
}

type entryStatusView struct {
	IsCheckedIn bool       `json:"isCheckedIn"`
	Entry       *entryView `json:"entry"`
}

func (h *Handler) entryStatusView(s entities.EntryStatus) entryStatusView {
	v := entryStatusView{IsCheckedIn: s.IsCheckedIn}
	if s.Entry != nil {
		e := h.entryView(*s.Entry)
		v.Entry = &e
	}
	return v
}

type entryStatsView struct {
	TotalEntries   int64            `json:"totalEntries"`
	MethodStats    map[string]int64 `json:"methodStats"`
	BarcodeEntries int64            `json:"barcodeEntries"`
	ManualEntries  int64            `json:"manualEntries"`
	RecentEntries  *[]entryView     `json:"recentEntries,omitempty"`
}

func (h *Handler) entryStatsView(s stats.EntryStats) entryStatsView {
	v := entryStatsView{
		TotalEntries:   s.TotalEntries,
		MethodStats:    make(map[string]int64, len(s.ByMethod)),
		BarcodeEntries: s.Barcode(),
		ManualEntries:  s.Manual(),
	}
	for method, n := range s.ByMethod {
		v.MethodStats[string(method)] = n
	}
	// Only the ledger-wide overview lists recent entries.
	if s.Recent != nil {
		recent := mapSlice(s.Recent, h.entryView)
		v.RecentEntries = &recent
	}
	return v
}

type attendanceView struct {
	EventID         string    `json:"eventId"`
	Name            string    `json:"name"`
	Date            time.Time `json:"date"`
	TotalRegistered int64     `json:"totalRegistered"`
	TotalEntered    int64     `json:"totalEntered"`
	Percent         string    `json:"percent"`
}

func newAttendanceView(a stats.Attendance) attendanceView {
	return attendanceView(a)
}

type bucketView struct {
	BucketStart time.Time `json:"bucketStart"`
	Count       int64     `json:"count"`
}

type timelineView struct {
	EntryTime     time.Time `json:"entryTime"`
	ParticipantID string    `json:"participantId"`
	Method        string    `json:"method"`
}

func mapSlice[T, V any](in []T, view func(T) V) []V {
	out := make([]V, len(in))
	for i, item := range in {
		out[i] = view(item)
	}
	return out
}
