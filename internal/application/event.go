package application

import (
	"context"
	"fmt"
	"strings"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/ports/output"
)

type EventService struct {
	eventRepo output.EventRepository
}

func NewEventService(eventRepo output.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

func (s *EventService) CreateEvent(ctx context.Context, event *entities.Event) error {
	normalizeEvent(event)
	if err := validateEvent(event); err != nil {
		return err
	}
	return s.eventRepo.Create(ctx, event)
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*entities.Event, error) {
	return s.eventRepo.FindByID(ctx, id)
}

func (s *EventService) UpdateEvent(ctx context.Context, id string, patch entities.EventPatch) (*entities.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(event)
	normalizeEvent(event)
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	return s.eventRepo.Delete(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context, filter entities.EventFilter) (entities.Page[entities.Event], error) {
	page, err := normalizePage(filter.Page, eventPageDefaults)
	if err != nil {
		return entities.Page[entities.Event]{}, err
	}
	filter.Page = page
	items, total, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return entities.Page[entities.Event]{}, fmt.Errorf("list events: %w", err)
	}
	return entities.NewPage(items, page, total), nil
}

func (s *EventService) ListActiveEvents(ctx context.Context) ([]entities.Event, error) {
	return s.eventRepo.FindActive(ctx)
}

func (s *EventService) ToggleEventStatus(ctx context.Context, id string) (*entities.Event, error) {
	return s.eventRepo.ToggleActive(ctx, id)
}

func normalizeEvent(e *entities.Event) {
	e.Name = strings.TrimSpace(e.Name)
	e.Description = strings.TrimSpace(e.Description)
}

func validateEvent(e *entities.Event) error {
	if e.Name == "" {
		return domain.Required("name")
	}
	if e.Date.IsZero() {
		return domain.Required("date")
	}
	return nil
}
