package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
)

func TestCreateEventValidation(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	if err := a.events.CreateEvent(ctx, &entities.Event{Name: "  ", Date: testNow}); domain.Field(err) != "name" {
		t.Fatalf("blank name = %v", err)
	}
	if err := a.events.CreateEvent(ctx, &entities.Event{Name: "Opening"}); domain.Field(err) != "date" {
		t.Fatalf("no date = %v", err)
	}
}

func TestEventLifecycle(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	ev := a.event(t, "Opening", testNow, true)
	a.event(t, "Closing", testNow.Add(48*time.Hour), false)

	name := "Grand opening"
	got, err := a.events.UpdateEvent(ctx, ev.ID, entities.EventPatch{Name: &name})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if got.Name != name || !got.IsActive {
		t.Fatalf("updated = %+v", got)
	}

	active, err := a.events.ListActiveEvents(ctx)
	if err != nil || len(active) != 1 {
		t.Fatalf("ListActiveEvents = %+v, %v", active, err)
	}

	inactive := false
	page, err := a.events.ListEvents(ctx, entities.EventFilter{Active: &inactive})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if page.Pagination.Total != 1 || page.Items[0].Name != "Closing" {
		t.Fatalf("inactive events = %+v", page)
	}

	toggled, err := a.events.ToggleEventStatus(ctx, ev.ID)
	if err != nil || toggled.IsActive {
		t.Fatalf("ToggleEventStatus = %+v, %v", toggled, err)
	}

	if err := a.events.DeleteEvent(ctx, ev.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if _, err := a.events.GetEvent(ctx, ev.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("GetEvent after delete = %v", err)
	}
}
