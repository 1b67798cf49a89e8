package input

import (
	"context"

	"checkin/internal/domain/entities"
)

type EventUseCase interface {
	CreateEvent(ctx context.Context, event *entities.Event) error
	GetEvent(ctx context.Context, id string) (*entities.Event, error)
	UpdateEvent(ctx context.Context, id string, patch entities.EventPatch) (*entities.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, filter entities.EventFilter) (entities.Page[entities.Event], error)
	ListActiveEvents(ctx context.Context) ([]entities.Event, error)
	ToggleEventStatus(ctx context.Context, id string) (*entities.Event, error)
}
