package memory

import (
	"context"
	"time"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/ports/output"
)

var _ output.ParticipantRepository = (*ParticipantRepository)(nil)

type ParticipantRepository struct {
	s *Store
}

var participantFields = map[string]compareFunc[entities.Participant]{
	"name":      byString(func(p entities.Participant) string { return p.Name }),
	"family":    byString(func(p entities.Participant) string { return p.Family }),
	"barcode":   byString(func(p entities.Participant) string { return p.Barcode }),
	"phone":     byString(func(p entities.Participant) string { return p.Phone }),
	"email":     byString(func(p entities.Participant) string { return p.Email }),
	"city":      byString(func(p entities.Participant) string { return p.City }),
	"groupType": byString(func(p entities.Participant) string { return p.GroupType }),
	"createdAt": byTime(func(p entities.Participant) time.Time { return p.CreatedAt }),
	"updatedAt": byTime(func(p entities.Participant) time.Time { return p.UpdatedAt }),
}

// checkUnique must run under the write lock.
func (r *ParticipantRepository) checkUnique(p *entities.Participant) error {
	for id, other := range r.s.participants {
		if id == p.ID {
			continue
		}
		switch {
		case other.Barcode == p.Barcode:
			return domain.DuplicateKey("barcode")
		case other.Phone == p.Phone:
			return domain.DuplicateKey("phone")
		case p.Email != "" && other.Email == p.Email:
			return domain.DuplicateKey("email")
		}
	}
	return nil
}

func (r *ParticipantRepository) Create(_ context.Context, p *entities.Participant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = r.s.newID()
	if err := r.checkUnique(p); err != nil {
		return err
	}
	now := r.s.timestamp()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.participants[p.ID] = *p
	return nil
}

func (r *ParticipantRepository) FindByID(_ context.Context, id string) (*entities.Participant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.participants[id]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	return &p, nil
}

func (r *ParticipantRepository) FindByBarcode(_ context.Context, barcode string) (*entities.Participant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.participants {
		if p.Barcode == barcode {
			return &p, nil
		}
	}
	return nil, domain.ErrParticipantNotFound
}

func (r *ParticipantRepository) Update(_ context.Context, p *entities.Participant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.participants[p.ID]
	if !ok {
		return domain.ErrParticipantNotFound
	}
	if err := r.checkUnique(p); err != nil {
		return err
	}
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = r.s.timestamp()
	r.s.participants[p.ID] = *p
	return nil
}

func (r *ParticipantRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.participants[id]; !ok {
		return domain.ErrParticipantNotFound
	}
	for _, e := range r.s.entries {
		if e.ParticipantID == id {
			return domain.ErrParticipantHasEntries
		}
	}
	delete(r.s.participants, id)
	return nil
}

func (r *ParticipantRepository) Search(_ context.Context, q entities.ParticipantQuery) ([]entities.Participant, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matches := make([]entities.Participant, 0, len(r.s.participants))
	for _, p := range r.s.participants {
		if q.Search == "" ||
			containsFold(p.Name, q.Search) ||
			containsFold(p.Family, q.Search) ||
			containsFold(p.Barcode, q.Search) ||
			containsFold(p.Email, q.Search) ||
			containsFold(p.City, q.Search) {
			matches = append(matches, p)
		}
	}
	total := int64(len(matches))
	return sortAndPage(matches, q.Page, participantFields, func(p entities.Participant) string { return p.ID }), total, nil
}

func (r *ParticipantRepository) CountRegisteredBefore(_ context.Context, t time.Time) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, p := range r.s.participants {
		if !p.CreatedAt.After(t) {
			n++
		}
	}
	return n, nil
}
