package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"checkin/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// uniqueConstraints maps unique constraint names to the domain error they signal.
var uniqueConstraints = map[string]error{
	"participants_barcode_key":      domain.DuplicateKey("barcode"),
	"participants_phone_key":        domain.DuplicateKey("phone"),
	"participants_email_key":        domain.DuplicateKey("email"),
	"users_username_key":            domain.DuplicateKey("username"),
	"entries_participant_event_key": domain.ErrDuplicateEntry,
}

// insertReferences maps foreign keys violated by an entry insert to the
// missing record.
var insertReferences = map[string]error{
	"entries_participant_id_fkey": domain.ErrParticipantNotFound,
	"entries_event_id_fkey":       domain.ErrEventNotFound,
	"entries_scanner_id_fkey":     domain.ErrUserNotFound,
}

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// translateWriteError maps constraint violations to domain errors and
// returns nil when err is not one.
func translateWriteError(err error) error {
	pgErr, ok := pgError(err)
	if !ok {
		return nil
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		if derr, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
			return derr
		}
		return domain.ErrDuplicateKey
	case codeForeignKeyViolation:
		if derr, ok := insertReferences[pgErr.ConstraintName]; ok {
			return derr
		}
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == codeForeignKeyViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// validID reports whether id can name a row; anything else cannot exist.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
