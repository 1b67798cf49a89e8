package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/domain/stats"
	"checkin/internal/ports/output"
)

var _ output.EntryRepository = (*EntryRepository)(nil)

type EntryRepository struct {
	s *Store
}

var entryFields = map[string]compareFunc[entities.EntryDetails]{
	"entryTime": byTime(func(e entities.EntryDetails) time.Time { return e.EntryTime }),
	"method":    byString(func(e entities.EntryDetails) string { return string(e.Method) }),
	"createdAt": byTime(func(e entities.EntryDetails) time.Time { return e.CreatedAt }),
}

// Create inserts the entry unless the pair already has one. The lookup and
// the insert share the write lock, so racing inserts for a pair admit one.
func (r *EntryRepository) Create(_ context.Context, e *entities.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.participants[e.ParticipantID]; !ok {
		return domain.ErrParticipantNotFound
	}
	if _, ok := r.s.events[e.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	if _, ok := r.s.users[e.ScannerID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, other := range r.s.entries {
		if other.ParticipantID == e.ParticipantID && other.EventID == e.EventID {
			return domain.ErrDuplicateEntry
		}
	}

	e.ID = r.s.newID()
	e.CreatedAt = r.s.timestamp()
	if e.EntryTime.IsZero() {
		e.EntryTime = e.CreatedAt
	}
	r.s.entries[e.ID] = *e
	return nil
}

// details attaches projections; callers hold at least the read lock.
func (r *EntryRepository) details(e entities.Entry) entities.EntryDetails {
	d := entities.EntryDetails{Entry: e}
	if p, ok := r.s.participants[e.ParticipantID]; ok {
		d.Participant = &p
	}
	if ev, ok := r.s.events[e.EventID]; ok {
		d.Event = &ev
	}
	if u, ok := r.s.users[e.ScannerID]; ok {
		d.Scanner = &u
	}
	return d
}

func (r *EntryRepository) FindByID(_ context.Context, id string) (*entities.EntryDetails, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	d := r.details(e)
	return &d, nil
}

func (r *EntryRepository) FindByParticipantAndEvent(_ context.Context, participantID, eventID string) (*entities.EntryDetails, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.entries {
		if e.ParticipantID == participantID && e.EventID == eventID {
			d := r.details(e)
			return &d, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (r *EntryRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(r.s.entries, id)
	return nil
}

func (r *EntryRepository) List(_ context.Context, filter entities.EntryFilter) ([]entities.EntryDetails, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matches := make([]entities.EntryDetails, 0, len(r.s.entries))
	for _, e := range r.s.entries {
		if filter.EventID != "" && e.EventID != filter.EventID {
			continue
		}
		if filter.ParticipantID != "" && e.ParticipantID != filter.ParticipantID {
			continue
		}
		matches = append(matches, r.details(e))
	}
	total := int64(len(matches))
	return sortAndPage(matches, filter.Page, entryFields, func(e entities.EntryDetails) string { return e.ID }), total, nil
}

func (r *EntryRepository) CountByMethod(_ context.Context, eventID string) (stats.MethodCounts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := stats.MethodCounts{entities.MethodBarcode: 0, entities.MethodManual: 0}
	for _, e := range r.s.entries {
		if eventID == "" || e.EventID == eventID {
			counts[e.Method]++
		}
	}
	return counts, nil
}

func (r *EntryRepository) CountByEvent(_ context.Context, eventID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, e := range r.s.entries {
		if e.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (r *EntryRepository) CountByBucket(_ context.Context, size time.Duration) ([]stats.Bucket, error) {
	r.s.mu.RLock()
	times := make([]time.Time, 0, len(r.s.entries))
	for _, e := range r.s.entries {
		times = append(times, e.EntryTime)
	}
	r.s.mu.RUnlock()

	return stats.Bucketize(times, size), nil
}

func (r *EntryRepository) Timeline(_ context.Context, eventID string) ([]stats.TimelinePoint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []entities.Entry
	for _, e := range r.s.entries {
		if e.EventID == eventID {
			matched = append(matched, e)
		}
	}
	slices.SortFunc(matched, func(a, b entities.Entry) int {
		if c := a.EntryTime.Compare(b.EntryTime); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	points := make([]stats.TimelinePoint, 0, len(matched))
	for _, e := range matched {
		points = append(points, stats.TimelinePoint{
			EntryTime:     e.EntryTime,
			ParticipantID: e.ParticipantID,
			Method:        e.Method,
		})
	}
	return points, nil
}
