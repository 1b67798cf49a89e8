package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/ports/output"
)

// EntryService is the entry ledger: it admits participants into events and
// answers who has entered.
type EntryService struct {
	entryRepo       output.EntryRepository
	participantRepo output.ParticipantRepository
	eventRepo       output.EventRepository
	now             func() time.Time
}

func NewEntryService(
	entryRepo output.EntryRepository,
	participantRepo output.ParticipantRepository,
	eventRepo output.EventRepository,
) *EntryService {
	return &EntryService{
		entryRepo:       entryRepo,
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		now:             time.Now,
	}
}

// CheckIn admits the participant with the given id into the event.
func (s *EntryService) CheckIn(ctx context.Context, participantID, eventID, scannerID string, method entities.EntryMethod) (_ *entities.EntryDetails, err error) {
	ctx, span := startSpan(ctx, "EntryService.CheckIn",
		attribute.String("checkin.participant_id", participantID),
		attribute.String("checkin.event_id", eventID),
	)
	defer func() { endSpan(span, err) }()

	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return nil, domain.Required("participantId")
	}
	if method, err = checkInPreconditions(eventID, scannerID, method); err != nil {
		return nil, err
	}
	participant, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	return s.admit(ctx, participant, strings.TrimSpace(eventID), scannerID, method)
}

// CheckInByBarcode resolves the participant by barcode, then admits them like CheckIn.
func (s *EntryService) CheckInByBarcode(ctx context.Context, barcode, eventID, scannerID string, method entities.EntryMethod) (_ *entities.EntryDetails, err error) {
	ctx, span := startSpan(ctx, "EntryService.CheckInByBarcode",
		attribute.String("checkin.event_id", eventID),
	)
	defer func() { endSpan(span, err) }()

	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.Required("barcode")
	}
	if method, err = checkInPreconditions(eventID, scannerID, method); err != nil {
		return nil, err
	}
	participant, err := s.participantRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return s.admit(ctx, participant, strings.TrimSpace(eventID), scannerID, method)
}

func checkInPreconditions(eventID, scannerID string, method entities.EntryMethod) (entities.EntryMethod, error) {
	if strings.TrimSpace(eventID) == "" {
		return method, domain.Required("eventId")
	}
	if scannerID == "" {
		return method, domain.ErrUnauthenticated
	}
	if method == "" {
		method = entities.MethodBarcode
	}
	if !method.Valid() {
		return method, domain.Invalid("method")
	}
	return method, nil
}

// admit runs the remaining checks in order: event exists, event active, no
// prior entry. The final insert is guarded by the store's unique constraint,
// which is what settles concurrent attempts for the same pair.
func (s *EntryService) admit(ctx context.Context, participant *entities.Participant, eventID, scannerID string, method entities.EntryMethod) (*entities.EntryDetails, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, domain.ErrEventInactive
	}
	if _, err := s.entryRepo.FindByParticipantAndEvent(ctx, participant.ID, event.ID); err == nil {
		return nil, domain.ErrDuplicateEntry
	} else if !errors.Is(err, domain.ErrEntryNotFound) {
		return nil, fmt.Errorf("check existing entry: %w", err)
	}

	entry := &entities.Entry{
		ParticipantID: participant.ID,
		EventID:       event.ID,
		ScannerID:     scannerID,
		EntryTime:     s.now(),
		Method:        method,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return s.entryRepo.FindByID(ctx, entry.ID)
}

func (s *EntryService) GetEntry(ctx context.Context, id string) (*entities.EntryDetails, error) {
	return s.entryRepo.FindByID(ctx, id)
}

// DeleteEntry undoes a check-in.
func (s *EntryService) DeleteEntry(ctx context.Context, id string) error {
	return s.entryRepo.Delete(ctx, id)
}

func (s *EntryService) ListEntries(ctx context.Context, filter entities.EntryFilter) (entities.Page[entities.EntryDetails], error) {
	page, err := normalizePage(filter.Page, entryPageDefaults)
	if err != nil {
		return entities.Page[entities.EntryDetails]{}, err
	}
	filter.Page = page
	items, total, err := s.entryRepo.List(ctx, filter)
	if err != nil {
		return entities.Page[entities.EntryDetails]{}, fmt.Errorf("list entries: %w", err)
	}
	return entities.NewPage(items, page, total), nil
}

// CheckStatus reports whether the participant has entered the event. It never writes.
func (s *EntryService) CheckStatus(ctx context.Context, participantID, eventID string) (entities.EntryStatus, error) {
	entry, err := s.entryRepo.FindByParticipantAndEvent(ctx, participantID, eventID)
	if errors.Is(err, domain.ErrEntryNotFound) {
		return entities.EntryStatus{}, nil
	}
	if err != nil {
		return entities.EntryStatus{}, fmt.Errorf("check entry status: %w", err)
	}
	return entities.EntryStatus{IsCheckedIn: true, Entry: entry}, nil
}
