package input

import (
	"context"
	"time"

	"checkin/internal/domain/entities"
	"checkin/internal/domain/stats"
)

type EntryUseCase interface {
	CheckIn(ctx context.Context, participantID, eventID, scannerID string, method entities.EntryMethod) (*entities.EntryDetails, error)
	CheckInByBarcode(ctx context.Context, barcode, eventID, scannerID string, method entities.EntryMethod) (*entities.EntryDetails, error)
	GetEntry(ctx context.Context, id string) (*entities.EntryDetails, error)
	DeleteEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context, filter entities.EntryFilter) (entities.Page[entities.EntryDetails], error)
	CheckStatus(ctx context.Context, participantID, eventID string) (entities.EntryStatus, error)
}

type StatisticsUseCase interface {
	EntryStats(ctx context.Context, eventID string) (stats.EntryStats, error)
	BucketedCounts(ctx context.Context, size time.Duration) ([]stats.Bucket, error)
	EventTimeline(ctx context.Context, eventID string) ([]stats.TimelinePoint, error)
	Attendance(ctx context.Context, eventID string) (stats.Attendance, error)
	AttendanceForPastEvents(ctx context.Context) ([]stats.Attendance, error)
}
