package application

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"checkin/internal/domain/entities"
	"checkin/internal/domain/stats"
	"checkin/internal/ports/output"
)

// recentEntriesLimit is the number of latest entries in the ledger overview.
const recentEntriesLimit = 10

// StatisticsService derives counts and attendance from the ledger and the
// registries. It never writes.
type StatisticsService struct {
	entryRepo       output.EntryRepository
	participantRepo output.ParticipantRepository
	eventRepo       output.EventRepository
	now             func() time.Time
}

func NewStatisticsService(
	entryRepo output.EntryRepository,
	participantRepo output.ParticipantRepository,
	eventRepo output.EventRepository,
) *StatisticsService {
	return &StatisticsService{
		entryRepo:       entryRepo,
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		now:             time.Now,
	}
}

// EntryStats counts entries by method for one event, or for the whole ledger
// when eventID is empty. The ledger-wide overview also lists the latest entries.
func (s *StatisticsService) EntryStats(ctx context.Context, eventID string) (_ stats.EntryStats, err error) {
	ctx, span := startSpan(ctx, "StatisticsService.EntryStats", attribute.String("checkin.event_id", eventID))
	defer func() { endSpan(span, err) }()

	if eventID != "" {
		if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
			return stats.EntryStats{}, err
		}
	}
	byMethod, err := s.entryRepo.CountByMethod(ctx, eventID)
	if err != nil {
		return stats.EntryStats{}, fmt.Errorf("count entries by method: %w", err)
	}
	out := stats.EntryStats{TotalEntries: byMethod.Total(), ByMethod: byMethod}
	if eventID == "" {
		recent, _, err := s.entryRepo.List(ctx, entities.EntryFilter{Page: entities.PageRequest{
			Page:      1,
			Limit:     recentEntriesLimit,
			SortBy:    "entryTime",
			SortOrder: entities.SortDesc,
		}})
		if err != nil {
			return stats.EntryStats{}, fmt.Errorf("list recent entries: %w", err)
		}
		out.Recent = recent
	}
	return out, nil
}

// BucketedCounts pools the entries of all events into buckets of size,
// ascending by bucket start. A non-positive size selects DefaultBucketSize.
func (s *StatisticsService) BucketedCounts(ctx context.Context, size time.Duration) (_ []stats.Bucket, err error) {
	ctx, span := startSpan(ctx, "StatisticsService.BucketedCounts")
	defer func() { endSpan(span, err) }()

	if size <= 0 {
		size = stats.DefaultBucketSize
	}
	buckets, err := s.entryRepo.CountByBucket(ctx, size)
	if err != nil {
		return nil, fmt.Errorf("count entries by bucket: %w", err)
	}
	return buckets, nil
}

// EventTimeline lists the arrivals at an event in entry-time order.
func (s *StatisticsService) EventTimeline(ctx context.Context, eventID string) (_ []stats.TimelinePoint, err error) {
	ctx, span := startSpan(ctx, "StatisticsService.EventTimeline", attribute.String("checkin.event_id", eventID))
	defer func() { endSpan(span, err) }()

	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	points, err := s.entryRepo.Timeline(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("event timeline: %w", err)
	}
	return points, nil
}

// Attendance compares the entries of an event with the participants who had
// registered by the event date.
func (s *StatisticsService) Attendance(ctx context.Context, eventID string) (_ stats.Attendance, err error) {
	ctx, span := startSpan(ctx, "StatisticsService.Attendance", attribute.String("checkin.event_id", eventID))
	defer func() { endSpan(span, err) }()

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return stats.Attendance{}, err
	}
	return s.attendance(ctx, *event)
}

// AttendanceForPastEvents reports attendance for every event dated before
// now, in event-date order.
func (s *StatisticsService) AttendanceForPastEvents(ctx context.Context) (_ []stats.Attendance, err error) {
	ctx, span := startSpan(ctx, "StatisticsService.AttendanceForPastEvents")
	defer func() { endSpan(span, err) }()

	events, err := s.eventRepo.FindBefore(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("find past events: %w", err)
	}
	out := make([]stats.Attendance, 0, len(events))
	for _, e := range events {
		a, err := s.attendance(ctx, e)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *StatisticsService) attendance(ctx context.Context, event entities.Event) (stats.Attendance, error) {
	registered, err := s.participantRepo.CountRegisteredBefore(ctx, event.Date)
	if err != nil {
		return stats.Attendance{}, fmt.Errorf("count registered for event %s: %w", event.ID, err)
	}
	entered, err := s.entryRepo.CountByEvent(ctx, event.ID)
	if err != nil {
		return stats.Attendance{}, fmt.Errorf("count entries for event %s: %w", event.ID, err)
	}
	return stats.NewAttendance(event, registered, entered), nil
}
