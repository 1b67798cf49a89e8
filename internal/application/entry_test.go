package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
)

func TestCheckIn(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	scanner := a.user(t, "gate", entities.RoleScanner)
	p := a.participant(t, "B-1", "050-1")
	ev := a.event(t, "Opening", testNow, true)

	d, err := a.entries.CheckIn(ctx, p.ID, ev.ID, scanner.ID, "")
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if d.Method != entities.MethodBarcode {
		t.Fatalf("default method = %q", d.Method)
	}
	if !d.EntryTime.Equal(testNow) {
		t.Fatalf("EntryTime = %v", d.EntryTime)
	}
	if d.Participant == nil || d.Participant.Barcode != "B-1" || d.Scanner == nil || d.Scanner.Username != "gate" {
		t.Fatalf("projections = %+v", d)
	}

	if _, err := a.entries.CheckIn(ctx, p.ID, ev.ID, scanner.ID, entities.MethodManual); !errors.Is(err, domain.ErrDuplicateEntry) {
		t.Fatalf("second CheckIn = %v, want duplicate", err)
	}
}

func TestCheckInRejections(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	scanner := a.user(t, "gate", entities.RoleScanner)
	p := a.participant(t, "B-1", "050-1")
	active := a.event(t, "Active", testNow, true)
	inactive := a.event(t, "Closed", testNow, false)

	tests := []struct {
		name          string
		participantID string
		eventID       string
		scannerID     string
		method        entities.EntryMethod
		want          error
	}{
		{"missing participant id", "", active.ID, scanner.ID, "", domain.ErrFieldRequired},
		{"missing event id", p.ID, " ", scanner.ID, "", domain.ErrFieldRequired},
		{"no scanner", p.ID, active.ID, "", "", domain.ErrUnauthenticated},
		{"bad method", p.ID, active.ID, scanner.ID, "qr", domain.ErrFieldInvalid},
		{"unknown participant", "nope", active.ID, scanner.ID, "", domain.ErrParticipantNotFound},
		{"unknown event", p.ID, "nope", scanner.ID, "", domain.ErrEventNotFound},
		{"inactive event", p.ID, inactive.ID, scanner.ID, "", domain.ErrEventInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.entries.CheckIn(ctx, tt.participantID, tt.eventID, tt.scannerID, tt.method)
			if !errors.Is(err, tt.want) {
				t.Fatalf("CheckIn = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCheckInByBarcode(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	scanner := a.user(t, "gate", entities.RoleScanner)
	p := a.participant(t, "B-42", "050-1")
	ev := a.event(t, "Opening", testNow, true)

	d, err := a.entries.CheckInByBarcode(ctx, " B-42 ", ev.ID, scanner.ID, entities.MethodBarcode)
	if err != nil {
		t.Fatalf("CheckInByBarcode: %v", err)
	}
	if d.ParticipantID != p.ID {
		t.Fatalf("ParticipantID = %q, want %q", d.ParticipantID, p.ID)
	}
	if _, err := a.entries.CheckInByBarcode(ctx, "B-42", ev.ID, scanner.ID, ""); !errors.Is(err, domain.ErrDuplicateEntry) {
		t.Fatalf("repeat = %v", err)
	}
	if _, err := a.entries.CheckInByBarcode(ctx, "B-404", ev.ID, scanner.ID, ""); !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Fatalf("unknown barcode = %v", err)
	}
	if _, err := a.entries.CheckInByBarcode(ctx, "", ev.ID, scanner.ID, ""); domain.Field(err) != "barcode" {
		t.Fatalf("empty barcode = %v", err)
	}
}

func TestConcurrentCheckInAdmitsOne(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	scanner := a.user(t, "gate", entities.RoleScanner)
	p := a.participant(t, "B-1", "050-1")
	ev := a.event(t, "Opening", testNow, true)

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = a.entries.CheckIn(ctx, p.ID, ev.ID, scanner.ID, entities.MethodBarcode)
		}()
	}
	wg.Wait()

	var admitted, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, domain.ErrDuplicateEntry):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if admitted != 1 || duplicates != n-1 {
		t.Fatalf("admitted=%d duplicates=%d", admitted, duplicates)
	}
}

func TestCheckStatusAndUndo(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	scanner := a.user(t, "gate", entities.RoleScanner)
	p := a.participant(t, "B-1", "050-1")
	ev := a.event(t, "Opening", testNow, true)

	status, err := a.entries.CheckStatus(ctx, p.ID, ev.ID)
	if err != nil {
		t.Fatalf("CheckStatus: %v", err)
	}
	if status.IsCheckedIn || status.Entry != nil {
		t.Fatalf("status before = %+v", status)
	}

	d, err := a.entries.CheckIn(ctx, p.ID, ev.ID, scanner.ID, entities.MethodManual)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	for range 2 {
		status, err = a.entries.CheckStatus(ctx, p.ID, ev.ID)
		if err != nil {
			t.Fatalf("CheckStatus: %v", err)
		}
		if !status.IsCheckedIn || status.Entry == nil || status.Entry.ID != d.ID {
			t.Fatalf("status after = %+v", status)
		}
	}

	if err := a.entries.DeleteEntry(ctx, d.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if _, err := a.entries.GetEntry(ctx, d.ID); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("GetEntry after undo = %v", err)
	}
	a.clock = testNow.Add(time.Minute)
	again, err := a.entries.CheckIn(ctx, p.ID, ev.ID, scanner.ID, entities.MethodBarcode)
	if err != nil {
		t.Fatalf("CheckIn after undo: %v", err)
	}
	if again.ID == d.ID || !again.EntryTime.Equal(testNow.Add(time.Minute)) {
		t.Fatalf("re-entry = %+v", again)
	}
}

func TestListEntries(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	scanner := a.user(t, "gate", entities.RoleScanner)
	ev := a.event(t, "Opening", testNow, true)
	for i, code := range []string{"B-1", "B-2", "B-3"} {
		p := a.participant(t, code, code)
		a.clock = testNow.Add(time.Duration(i) * time.Minute)
		if _, err := a.entries.CheckIn(ctx, p.ID, ev.ID, scanner.ID, ""); err != nil {
			t.Fatalf("CheckIn: %v", err)
		}
	}

	page, err := a.entries.ListEntries(ctx, entities.EntryFilter{EventID: ev.ID, Page: entities.PageRequest{Limit: 2}})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if page.Pagination.Total != 3 || page.Pagination.TotalPages != 2 || len(page.Items) != 2 {
		t.Fatalf("pagination = %+v items=%d", page.Pagination, len(page.Items))
	}
	// Newest first by default.
	if page.Items[0].Participant.Barcode != "B-3" {
		t.Fatalf("first item = %s", page.Items[0].Participant.Barcode)
	}

	if _, err := a.entries.ListEntries(ctx, entities.EntryFilter{Page: entities.PageRequest{SortBy: "name"}}); domain.Field(err) != "sortBy" {
		t.Fatalf("bad sortBy = %v", err)
	}
}
