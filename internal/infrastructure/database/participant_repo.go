package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/ports/output"
)

var _ output.ParticipantRepository = (*ParticipantRepository)(nil)

// ParticipantRepository implements output.ParticipantRepository with pgx.
type ParticipantRepository struct {
	db DBTX
}

// NewParticipantRepository creates a ParticipantRepository.
func NewParticipantRepository(db DBTX) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

var participantSortColumns = map[string]string{
	"name":      "name",
	"family":    "family",
	"barcode":   "barcode",
	"phone":     "phone",
	"email":     "email",
	"city":      "city",
	"groupType": "group_type",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func (r *ParticipantRepository) Create(ctx context.Context, p *entities.Participant) error {
	row := r.db.QueryRow(ctx, `
INSERT INTO participants (id, name, family, barcode, phone, email, city, school_class, branch, group_type)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+participantColumns,
		uuid.NewString(), p.Name, p.Family, p.Barcode, p.Phone, textOrNull(p.Email), p.City, p.SchoolClass, p.Branch, p.GroupType,
	)
	created, err := scanParticipant(row)
	if err != nil {
		if derr := translateWriteError(err); derr != nil {
			return derr
		}
		return fmt.Errorf("create participant: %w", err)
	}
	*p = created
	return nil
}

func (r *ParticipantRepository) FindByID(ctx context.Context, id string) (*entities.Participant, error) {
	if !validID(id) {
		return nil, domain.ErrParticipantNotFound
	}
	return r.findOne(ctx, "id", id)
}

func (r *ParticipantRepository) FindByBarcode(ctx context.Context, barcode string) (*entities.Participant, error) {
	return r.findOne(ctx, "barcode", barcode)
}

func (r *ParticipantRepository) findOne(ctx context.Context, column, value string) (*entities.Participant, error) {
	p, err := scanParticipant(r.db.QueryRow(ctx, `SELECT `+participantColumns+` FROM participants WHERE `+column+` = $1`, value))
	if isNoRows(err) {
		return nil, domain.ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get participant by %s: %w", column, err)
	}
	return &p, nil
}

// Update rewrites every column; the unique indexes re-check barcode, phone
// and email within the same statement.
func (r *ParticipantRepository) Update(ctx context.Context, p *entities.Participant) error {
	if !validID(p.ID) {
		return domain.ErrParticipantNotFound
	}
	row := r.db.QueryRow(ctx, `
UPDATE participants
SET name = $2, family = $3, barcode = $4, phone = $5, email = $6, city = $7,
    school_class = $8, branch = $9, group_type = $10, updated_at = now()
WHERE id = $1
RETURNING `+participantColumns,
		p.ID, p.Name, p.Family, p.Barcode, p.Phone, textOrNull(p.Email), p.City, p.SchoolClass, p.Branch, p.GroupType,
	)
	updated, err := scanParticipant(row)
	if isNoRows(err) {
		return domain.ErrParticipantNotFound
	}
	if err != nil {
		if derr := translateWriteError(err); derr != nil {
			return derr
		}
		return fmt.Errorf("update participant: %w", err)
	}
	*p = updated
	return nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrParticipantNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return domain.ErrParticipantHasEntries
	}
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

const participantSearchWhere = `
WHERE $1 = '' OR name ILIKE $2 OR family ILIKE $2 OR barcode ILIKE $2 OR email ILIKE $2 OR city ILIKE $2`

func (r *ParticipantRepository) Search(ctx context.Context, q entities.ParticipantQuery) ([]entities.Participant, int64, error) {
	pattern := likePattern(q.Search)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM participants`+participantSearchWhere, q.Search, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count participants: %w", err)
	}

	sql := `SELECT ` + participantColumns + ` FROM participants` + participantSearchWhere +
		orderBy(participantSortColumns, q.Page, "created_at", "id") + ` LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, sql, q.Search, pattern, q.Page.Limit, q.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("search participants: %w", err)
	}
	defer rows.Close()

	out := []entities.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("search participants: %w", err)
	}
	return out, total, nil
}

func (r *ParticipantRepository) CountRegisteredBefore(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM participants WHERE created_at <= $1`, timeToPgtypeTimestamptz(t)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count registered participants: %w", err)
	}
	return n, nil
}
