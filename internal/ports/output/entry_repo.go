package output

import (
	"context"
	"time"

	"checkin/internal/domain/entities"
	"checkin/internal/domain/stats"
)

// EntryRepository is the entry ledger storage. Create must fail with
// domain.ErrDuplicateEntry when an entry for the same (participant, event)
// pair exists, including when two inserts race.
type EntryRepository interface {
	Create(ctx context.Context, entry *entities.Entry) error
	FindByID(ctx context.Context, id string) (*entities.EntryDetails, error)
	FindByParticipantAndEvent(ctx context.Context, participantID, eventID string) (*entities.EntryDetails, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entities.EntryFilter) ([]entities.EntryDetails, int64, error)
	// CountByMethod tallies entries per method; an empty eventID covers all events.
	CountByMethod(ctx context.Context, eventID string) (stats.MethodCounts, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
	// CountByBucket pools entries of all events into fixed-size time buckets.
	CountByBucket(ctx context.Context, size time.Duration) ([]stats.Bucket, error)
	// Timeline returns the arrivals of an event ordered by entry time.
	Timeline(ctx context.Context, eventID string) ([]stats.TimelinePoint, error)
}
