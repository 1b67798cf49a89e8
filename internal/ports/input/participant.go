package input

import (
	"context"

	"checkin/internal/domain/entities"
)

type ParticipantUseCase interface {
	CreateParticipant(ctx context.Context, p *entities.Participant) error
	GetParticipant(ctx context.Context, id string) (*entities.Participant, error)
	GetParticipantByBarcode(ctx context.Context, barcode string) (*entities.Participant, error)
	UpdateParticipant(ctx context.Context, id string, patch entities.ParticipantPatch) (*entities.Participant, error)
	DeleteParticipant(ctx context.Context, id string) error
	SearchParticipants(ctx context.Context, q entities.ParticipantQuery) (entities.Page[entities.Participant], error)
}
