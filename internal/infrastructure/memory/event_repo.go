package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	s *Store
}

var eventFields = map[string]compareFunc[entities.Event]{
	"name":      byString(func(e entities.Event) string { return e.Name }),
	"date":      byTime(func(e entities.Event) time.Time { return e.Date }),
	"isActive":  byBool(func(e entities.Event) bool { return e.IsActive }),
	"createdAt": byTime(func(e entities.Event) time.Time { return e.CreatedAt }),
	"updatedAt": byTime(func(e entities.Event) time.Time { return e.UpdatedAt }),
}

func (r *EventRepository) Create(_ context.Context, e *entities.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e.ID = r.s.newID()
	now := r.s.timestamp()
	e.CreatedAt, e.UpdatedAt = now, now
	r.s.events[e.ID] = *e
	return nil
}

func (r *EventRepository) FindByID(_ context.Context, id string) (*entities.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &e, nil
}

func (r *EventRepository) Update(_ context.Context, e *entities.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.events[e.ID]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.CreatedAt = current.CreatedAt
	e.UpdatedAt = r.s.timestamp()
	r.s.events[e.ID] = *e
	return nil
}

func (r *EventRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	for _, entry := range r.s.entries {
		if entry.EventID == id {
			return domain.ErrEventHasEntries
		}
	}
	delete(r.s.events, id)
	return nil
}

func (r *EventRepository) List(_ context.Context, filter entities.EventFilter) ([]entities.Event, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matches := make([]entities.Event, 0, len(r.s.events))
	for _, e := range r.s.events {
		if filter.Active == nil || e.IsActive == *filter.Active {
			matches = append(matches, e)
		}
	}
	total := int64(len(matches))
	return sortAndPage(matches, filter.Page, eventFields, eventID), total, nil
}

func (r *EventRepository) FindActive(_ context.Context) ([]entities.Event, error) {
	return r.collect(func(e entities.Event) bool { return e.IsActive }), nil
}

func (r *EventRepository) FindBefore(_ context.Context, t time.Time) ([]entities.Event, error) {
	return r.collect(func(e entities.Event) bool { return e.Date.Before(t) }), nil
}

// collect returns the matching events ordered by date ascending.
func (r *EventRepository) collect(keep func(entities.Event) bool) []entities.Event {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []entities.Event{}
	for _, e := range r.s.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b entities.Event) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func (r *EventRepository) ToggleActive(_ context.Context, id string) (*entities.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	e.IsActive = !e.IsActive
	e.UpdatedAt = r.s.timestamp()
	r.s.events[id] = e
	return &e, nil
}

func eventID(e entities.Event) string { return e.ID }
