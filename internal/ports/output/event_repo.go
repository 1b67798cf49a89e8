package output

import (
	"context"
	"time"

	"checkin/internal/domain/entities"
)

type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	FindByID(ctx context.Context, id string) (*entities.Event, error)
	Update(ctx context.Context, event *entities.Event) error
	// Delete fails with domain.ErrEventHasEntries while entries reference the event.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entities.EventFilter) ([]entities.Event, int64, error)
	// FindActive returns active events ordered by date ascending.
	FindActive(ctx context.Context) ([]entities.Event, error)
	// FindBefore returns events dated strictly before t, ordered by date ascending.
	FindBefore(ctx context.Context, t time.Time) ([]entities.Event, error)
	// ToggleActive flips the active flag in a single atomic write.
	ToggleActive(ctx context.Context, id string) (*entities.Event, error)
}
