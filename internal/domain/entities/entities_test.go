package entities

import (
	"math"
	"testing"
	"time"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		total     int64
		limit     int
		wantPages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		p := NewPage[int](nil, PageRequest{Page: 1, Limit: tt.limit}, tt.total)
		if p.Items == nil {
			t.Fatal("Items is nil, want empty slice")
		}
		if p.Pagination.TotalPages != tt.wantPages {
			t.Errorf("total=%d limit=%d: pages = %d, want %d", tt.total, tt.limit, p.Pagination.TotalPages, tt.wantPages)
		}
	}
}

func TestPageRequestOffset(t *testing.T) {
	if got := (PageRequest{Page: 3, Limit: 20}).Offset(); got != 40 {
		t.Fatalf("Offset = %d", got)
	}
	if got := (PageRequest{Page: 0, Limit: 20}).Offset(); got != 0 {
		t.Fatalf("Offset for page 0 = %d", got)
	}
	if got := (PageRequest{Page: 1 << 62, Limit: 3}).Offset(); got != math.MaxInt {
		t.Fatalf("Offset for a huge page = %d, want saturation at MaxInt", got)
	}
}

func TestParticipantPatch(t *testing.T) {
	p := &Participant{Name: "Dana", Family: "Levi", City: "Haifa"}
	city := ""
	name := "Noa"
	ParticipantPatch{Name: &name, City: &city}.Apply(p)
	if p.Name != "Noa" || p.Family != "Levi" || p.City != "" {
		t.Fatalf("participant = %+v", p)
	}
	if got := p.FullName(); got != "Noa Levi" {
		t.Fatalf("FullName = %q", got)
	}
	if got := (&Participant{Name: "Solo"}).FullName(); got != "Solo" {
		t.Fatalf("FullName without family = %q", got)
	}
}

func TestEventDayChecks(t *testing.T) {
	loc := time.FixedZone("IST", 2*60*60)
	e := &Event{Date: time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)}

	// 23:30 UTC is already 2 March in loc.
	if !e.IsToday(time.Date(2026, 3, 2, 8, 0, 0, 0, loc), loc) {
		t.Fatal("expected event to be today in loc")
	}
	if e.IsToday(time.Date(2026, 3, 1, 8, 0, 0, 0, loc), loc) {
		t.Fatal("expected event not to be today")
	}
	if !e.IsPast(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected event to be past")
	}
}

func TestRoleAndMethodValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleScanner, RoleViewer} {
		if !r.Valid() {
			t.Errorf("%s not valid", r)
		}
	}
	if Role("owner").Valid() {
		t.Error("unknown role accepted")
	}
	if !MethodBarcode.Valid() || !MethodManual.Valid() || EntryMethod("qr").Valid() {
		t.Error("method validity wrong")
	}
}
