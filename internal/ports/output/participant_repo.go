package output

import (
	"context"
	"time"

	"checkin/internal/domain/entities"
)

// ParticipantRepository persists participants. Implementations enforce the
// uniqueness of barcode, phone and email at write time and report violations
// as domain.DuplicateKey(field).
type ParticipantRepository interface {
	Create(ctx context.Context, participant *entities.Participant) error
	FindByID(ctx context.Context, id string) (*entities.Participant, error)
	FindByBarcode(ctx context.Context, barcode string) (*entities.Participant, error)
	Update(ctx context.Context, participant *entities.Participant) error
	// Delete fails with domain.ErrParticipantHasEntries while entries reference the participant.
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q entities.ParticipantQuery) ([]entities.Participant, int64, error)
	// CountRegisteredBefore counts participants created at or before t.
	CountRegisteredBefore(ctx context.Context, t time.Time) (int64, error)
}
