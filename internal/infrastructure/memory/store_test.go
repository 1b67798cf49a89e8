package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
)

type fixture struct {
	store       *Store
	participant entities.Participant
	event       entities.Event
	scanner     entities.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f := &fixture{store: NewStore(WithClock(func() time.Time { return now }))}

	f.participant = entities.Participant{Name: "Dana", Family: "Levi", Barcode: "B-1", Phone: "050-1", GroupType: "youth"}
	if err := f.store.Participants().Create(ctx, &f.participant); err != nil {
		t.Fatalf("create participant: %v", err)
	}
	f.event = entities.Event{Name: "Opening", Date: now.Add(time.Hour), IsActive: true}
	if err := f.store.Events().Create(ctx, &f.event); err != nil {
		t.Fatalf("create event: %v", err)
	}
	f.scanner = entities.User{Username: "gate", Name: "Gate", Role: entities.RoleScanner, IsActive: true, PasswordHash: "x"}
	if err := f.store.Users().Create(ctx, &f.scanner); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return f
}

func (f *fixture) entry() *entities.Entry {
	return &entities.Entry{
		ParticipantID: f.participant.ID,
		EventID:       f.event.ID,
		ScannerID:     f.scanner.ID,
		Method:        entities.MethodBarcode,
	}
}

func TestParticipantUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		p     entities.Participant
		field string
	}{
		{"barcode", entities.Participant{Name: "A", Family: "B", Barcode: "B-1", Phone: "050-2", GroupType: "g"}, "barcode"},
		{"phone", entities.Participant{Name: "A", Family: "B", Barcode: "B-2", Phone: "050-1", GroupType: "g"}, "phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.store.Participants().Create(ctx, &tt.p)
			if !errors.Is(err, domain.ErrDuplicateKey) || domain.Field(err) != tt.field {
				t.Fatalf("Create = %v, want duplicate %s", err, tt.field)
			}
		})
	}

	// Empty emails never collide.
	p := entities.Participant{Name: "A", Family: "B", Barcode: "B-3", Phone: "050-3", GroupType: "g"}
	if err := f.store.Participants().Create(ctx, &p); err != nil {
		t.Fatalf("Create with empty email: %v", err)
	}
}

func TestEntryCreateRejectsDuplicatePair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	entries := f.store.Entries()

	first := f.entry()
	if err := entries.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID == "" || first.EntryTime.IsZero() {
		t.Fatalf("entry not filled: %+v", first)
	}
	if err := entries.Create(ctx, f.entry()); !errors.Is(err, domain.ErrDuplicateEntry) {
		t.Fatalf("second Create = %v, want duplicate entry", err)
	}

	d, err := entries.FindByParticipantAndEvent(ctx, f.participant.ID, f.event.ID)
	if err != nil {
		t.Fatalf("FindByParticipantAndEvent: %v", err)
	}
	if d.Participant == nil || d.Event == nil || d.Scanner == nil {
		t.Fatalf("missing projections: %+v", d)
	}
}

func TestEntryCreateConcurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const n = 16

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.store.Entries().Create(ctx, f.entry())
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrDuplicateEntry):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != n-1 {
		t.Fatalf("ok=%d dup=%d", ok, dup)
	}
}

func TestDeleteWithEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.entry()
	if err := f.store.Entries().Create(ctx, e); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := f.store.Participants().Delete(ctx, f.participant.ID); !errors.Is(err, domain.ErrParticipantHasEntries) {
		t.Fatalf("delete participant = %v", err)
	}
	if err := f.store.Events().Delete(ctx, f.event.ID); !errors.Is(err, domain.ErrEventHasEntries) {
		t.Fatalf("delete event = %v", err)
	}
	if err := f.store.Users().Delete(ctx, f.scanner.ID); !errors.Is(err, domain.ErrUserHasEntries) {
		t.Fatalf("delete user = %v", err)
	}

	if err := f.store.Entries().Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete entry: %v", err)
	}
	if err := f.store.Entries().Delete(ctx, e.ID); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("second delete = %v", err)
	}
	if err := f.store.Participants().Delete(ctx, f.participant.ID); err != nil {
		t.Fatalf("delete participant after undo: %v", err)
	}
}

func TestParticipantSearchPaging(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for i, name := range []string{"Avi", "Bina", "Avital", "Dov"} {
		p := entities.Participant{Name: name, Family: "F", Barcode: name, Phone: string(rune('0' + i)), GroupType: "g"}
		if err := store.Participants().Create(ctx, &p); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	page := entities.PageRequest{Page: 1, Limit: 1, SortBy: "name", SortOrder: entities.SortAsc}
	items, total, err := store.Participants().Search(ctx, entities.ParticipantQuery{Search: "avi", Page: page})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 2 || len(items) != 1 || items[0].Name != "Avi" {
		t.Fatalf("page 1 = %+v total=%d", items, total)
	}

	page.Page = 3
	items, _, err = store.Participants().Search(ctx, entities.ParticipantQuery{Search: "avi", Page: page})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("page past the end = %+v", items)
	}

	// Offsets beyond int range return an empty page rather than panicking.
	page = entities.PageRequest{Page: 1 << 62, Limit: 3, SortBy: "name", SortOrder: entities.SortAsc}
	items, _, err = store.Participants().Search(ctx, entities.ParticipantQuery{Page: page})
	if err != nil {
		t.Fatalf("Search huge page: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("huge page = %+v", items)
	}
}

func TestEventToggleAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.store.Events().ToggleActive(ctx, f.event.ID)
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if e.IsActive {
		t.Fatal("event still active")
	}
	active, err := f.store.Events().FindActive(ctx)
	if err != nil {
		t.Fatalf("FindActive: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("active = %+v", active)
	}
	if _, err := f.store.Events().ToggleActive(ctx, "missing"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("toggle missing = %v", err)
	}
}

func TestUsernameUnique(t *testing.T) {
	f := newFixture(t)
	u := entities.User{Username: "gate", Name: "Other", Role: entities.RoleViewer, PasswordHash: "x"}
	err := f.store.Users().Create(context.Background(), &u)
	if !errors.Is(err, domain.ErrDuplicateKey) || domain.Field(err) != "username" {
		t.Fatalf("Create = %v", err)
	}
}

func TestCountByMethodReportsEveryMethod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	counts, err := f.store.Entries().CountByMethod(ctx, "")
	if err != nil {
		t.Fatalf("CountByMethod: %v", err)
	}
	if len(counts) != 2 || counts[entities.MethodBarcode] != 0 || counts[entities.MethodManual] != 0 {
		t.Fatalf("empty ledger counts = %v", counts)
	}
	if _, ok := counts[entities.MethodManual]; !ok {
		t.Fatal("manual key missing")
	}

	if err := f.store.Entries().Create(ctx, f.entry()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	counts, err = f.store.Entries().CountByMethod(ctx, f.event.ID)
	if err != nil {
		t.Fatalf("CountByMethod: %v", err)
	}
	if counts[entities.MethodBarcode] != 1 || counts[entities.MethodManual] != 0 || len(counts) != 2 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestTimelineBreaksTiesByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	var ids []string
	byID := map[string]string{}
	for i := 0; i < 5; i++ {
		p := entities.Participant{Name: "P", Family: "F", Barcode: "T-" + string(rune('a'+i)), Phone: "052-" + string(rune('a'+i)), GroupType: "g"}
		if err := f.store.Participants().Create(ctx, &p); err != nil {
			t.Fatalf("create participant: %v", err)
		}
		e := &entities.Entry{ParticipantID: p.ID, EventID: f.event.ID, ScannerID: f.scanner.ID, EntryTime: at, Method: entities.MethodManual}
		if err := f.store.Entries().Create(ctx, e); err != nil {
			t.Fatalf("create entry: %v", err)
		}
		ids = append(ids, e.ID)
		byID[e.ID] = p.ID
	}
	slices.Sort(ids)

	for run := 0; run < 3; run++ {
		points, err := f.store.Entries().Timeline(ctx, f.event.ID)
		if err != nil {
			t.Fatalf("Timeline: %v", err)
		}
		if len(points) != len(ids) {
			t.Fatalf("got %d points, want %d", len(points), len(ids))
		}
		for i, id := range ids {
			if points[i].ParticipantID != byID[id] {
				t.Fatalf("run %d: point %d = %s, want participant of entry %s", run, i, points[i].ParticipantID, id)
			}
		}
	}
}
