package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
)

func TestAttendanceWithoutParticipants(t *testing.T) {
	a := newTestApp(t)
	ev := a.event(t, "Opening", testNow, true)

	got, err := a.statistics.Attendance(context.Background(), ev.ID)
	if err != nil {
		t.Fatalf("Attendance: %v", err)
	}
	if got.TotalRegistered != 0 || got.TotalEntered != 0 || got.Percent != "0.00" {
		t.Fatalf("attendance = %+v", got)
	}
}

func TestAttendanceCountsRegisteredByEventDate(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	scanner := a.user(t, "gate", entities.RoleScanner)
	ev := a.event(t, "Opening", testNow.Add(time.Hour), true)

	early := a.participant(t, "B-1", "1")
	a.participant(t, "B-2", "2")
	a.participant(t, "B-3", "3")
	// Registered after the event; not counted.
	a.clock = testNow.Add(2 * time.Hour)
	a.participant(t, "B-4", "4")

	if _, err := a.entries.CheckIn(ctx, early.ID, ev.ID, scanner.ID, ""); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	got, err := a.statistics.Attendance(ctx, ev.ID)
	if err != nil {
		t.Fatalf("Attendance: %v", err)
	}
	if got.TotalRegistered != 3 || got.TotalEntered != 1 || got.Percent != "33.33" {
		t.Fatalf("attendance = %+v", got)
	}

	past, err := a.statistics.AttendanceForPastEvents(ctx)
	if err != nil {
		t.Fatalf("AttendanceForPastEvents: %v", err)
	}
	if len(past) != 1 || past[0].EventID != ev.ID {
		t.Fatalf("past = %+v", past)
	}

	if _, err := a.statistics.Attendance(ctx, "missing"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("missing event = %v", err)
	}
}

func TestEntryStats(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	scanner := a.user(t, "gate", entities.RoleScanner)
	ev1 := a.event(t, "One", testNow, true)
	ev2 := a.event(t, "Two", testNow, true)
	p1 := a.participant(t, "B-1", "1")
	p2 := a.participant(t, "B-2", "2")

	for _, c := range []struct {
		p      *entities.Participant
		ev     *entities.Event
		method entities.EntryMethod
	}{
		{p1, ev1, entities.MethodBarcode},
		{p2, ev1, entities.MethodManual},
		{p1, ev2, entities.MethodBarcode},
	} {
		if _, err := a.entries.CheckIn(ctx, c.p.ID, c.ev.ID, scanner.ID, c.method); err != nil {
			t.Fatalf("CheckIn: %v", err)
		}
	}

	one, err := a.statistics.EntryStats(ctx, ev1.ID)
	if err != nil {
		t.Fatalf("EntryStats: %v", err)
	}
	if one.TotalEntries != 2 || one.Barcode() != 1 || one.Manual() != 1 || one.Recent != nil {
		t.Fatalf("event stats = %+v", one)
	}

	all, err := a.statistics.EntryStats(ctx, "")
	if err != nil {
		t.Fatalf("EntryStats: %v", err)
	}
	if all.TotalEntries != 3 || all.Barcode() != 2 || len(all.Recent) != 3 {
		t.Fatalf("global stats = %+v", all)
	}

	if _, err := a.statistics.EntryStats(ctx, "missing"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("missing event = %v", err)
	}
}

func TestBucketedCountsAndTimeline(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	scanner := a.user(t, "gate", entities.RoleScanner)
	ev := a.event(t, "Opening", testNow, true)

	offsets := []time.Duration{7 * time.Minute, time.Minute, 3 * time.Minute}
	for i, off := range offsets {
		p := a.participant(t, string(rune('A'+i)), string(rune('1'+i)))
		a.clock = testNow.Add(off)
		if _, err := a.entries.CheckIn(ctx, p.ID, ev.ID, scanner.ID, ""); err != nil {
			t.Fatalf("CheckIn: %v", err)
		}
	}

	buckets, err := a.statistics.BucketedCounts(ctx, 0)
	if err != nil {
		t.Fatalf("BucketedCounts: %v", err)
	}
	if len(buckets) != 2 || buckets[0].Count != 2 || buckets[1].Count != 1 {
		t.Fatalf("buckets = %+v", buckets)
	}

	timeline, err := a.statistics.EventTimeline(ctx, ev.ID)
	if err != nil {
		t.Fatalf("EventTimeline: %v", err)
	}
	if len(timeline) != 3 || !timeline[0].EntryTime.Equal(testNow.Add(time.Minute)) {
		t.Fatalf("timeline = %+v", timeline)
	}
}

func TestStatisticsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	a := newTestApp(t)
	ctx := context.Background()
	ev := a.event(t, "Opening", testNow, true)

	if _, err := a.statistics.EventTimeline(ctx, ev.ID); err != nil {
		t.Fatalf("EventTimeline: %v", err)
	}
	if _, err := a.statistics.EventTimeline(ctx, "missing"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("EventTimeline(missing) = %v", err)
	}

	var timeline []sdktrace.ReadOnlySpan
	for _, span := range rec.Ended() {
		if span.Name() == "StatisticsService.EventTimeline" {
			timeline = append(timeline, span)
		}
	}
	if len(timeline) != 2 {
		t.Fatalf("recorded %d EventTimeline spans, want 2", len(timeline))
	}
	var eventAttr string
	for _, kv := range timeline[0].Attributes() {
		if kv.Key == "checkin.event_id" {
			eventAttr = kv.Value.AsString()
		}
	}
	if eventAttr != ev.ID {
		t.Fatalf("checkin.event_id = %q, want %q", eventAttr, ev.ID)
	}
	var code string
	for _, kv := range timeline[1].Attributes() {
		if kv.Key == "checkin.error_code" {
			code = kv.Value.AsString()
		}
	}
	if code != domain.ErrEventNotFound.Code {
		t.Fatalf("checkin.error_code = %q", code)
	}
}
