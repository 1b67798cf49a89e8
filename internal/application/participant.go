package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/ports/output"
)

type ParticipantService struct {
	participantRepo output.ParticipantRepository
	newBarcode      func() string
}

func NewParticipantService(participantRepo output.ParticipantRepository) *ParticipantService {
	return &ParticipantService{
		participantRepo: participantRepo,
		newBarcode:      uuid.NewString,
	}
}

// CreateParticipant validates p, assigns a barcode when none was supplied and
// stores it. Uniqueness of barcode, phone and email is decided by the store.
func (s *ParticipantService) CreateParticipant(ctx context.Context, p *entities.Participant) error {
	normalizeParticipant(p)
	if p.Barcode == "" {
		p.Barcode = s.newBarcode()
	}
	if err := validateParticipant(p); err != nil {
		return err
	}
	return s.participantRepo.Create(ctx, p)
}

func (s *ParticipantService) GetParticipant(ctx context.Context, id string) (*entities.Participant, error) {
	return s.participantRepo.FindByID(ctx, id)
}

func (s *ParticipantService) GetParticipantByBarcode(ctx context.Context, barcode string) (*entities.Participant, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.Required("barcode")
	}
	return s.participantRepo.FindByBarcode(ctx, barcode)
}

func (s *ParticipantService) UpdateParticipant(ctx context.Context, id string, patch entities.ParticipantPatch) (*entities.Participant, error) {
	p, err := s.participantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(p)
	normalizeParticipant(p)
	if err := validateParticipant(p); err != nil {
		return nil, err
	}
	if err := s.participantRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ParticipantService) DeleteParticipant(ctx context.Context, id string) error {
	return s.participantRepo.Delete(ctx, id)
}

func (s *ParticipantService) SearchParticipants(ctx context.Context, q entities.ParticipantQuery) (entities.Page[entities.Participant], error) {
	page, err := normalizePage(q.Page, participantPageDefaults)
	if err != nil {
		return entities.Page[entities.Participant]{}, err
	}
	q.Page = page
	q.Search = strings.TrimSpace(q.Search)
	items, total, err := s.participantRepo.Search(ctx, q)
	if err != nil {
		return entities.Page[entities.Participant]{}, fmt.Errorf("search participants: %w", err)
	}
	return entities.NewPage(items, page, total), nil
}

func normalizeParticipant(p *entities.Participant) {
	for _, f := range []*string{&p.Name, &p.Family, &p.Barcode, &p.Phone, &p.Email, &p.City, &p.SchoolClass, &p.Branch, &p.GroupType} {
		*f = strings.TrimSpace(*f)
	}
	p.Email = strings.ToLower(p.Email)
}

func validateParticipant(p *entities.Participant) error {
	switch {
	case p.Name == "":
		return domain.Required("name")
	case p.Family == "":
		return domain.Required("family")
	case p.Barcode == "":
		return domain.Required("barcode")
	case p.Phone == "":
		return domain.Required("phone")
	case p.GroupType == "":
		return domain.Required("groupType")
	}
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return domain.Invalid("email")
	}
	return nil
}
