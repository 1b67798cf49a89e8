package database

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"checkin/internal/domain/entities"
)

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func timeToPgtypeTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

// textOrNull stores empty strings as NULL so partial unique indexes ignore them.
func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func pgtypeTextToString(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func direction(order entities.SortOrder) string {
	if order == entities.SortAsc {
		return "ASC"
	}
	return "DESC"
}

// orderBy renders an ORDER BY clause from a whitelist of columns. Unknown
// fields fall back to fallback; ties are broken by tableAlias.id.
func orderBy(columns map[string]string, page entities.PageRequest, fallback, idColumn string) string {
	col, ok := columns[page.SortBy]
	if !ok {
		col = fallback
	}
	dir := direction(page.SortOrder)
	return " ORDER BY " + col + " " + dir + ", " + idColumn + " " + dir
}

// likePattern builds a case-insensitive substring pattern with LIKE
// metacharacters escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const participantColumns = `id, name, family, barcode, phone, email, city, school_class, branch, group_type, created_at, updated_at`

func scanParticipant(row rowScanner) (entities.Participant, error) {
	var (
		p                    entities.Participant
		email                pgtype.Text
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&p.ID, &p.Name, &p.Family, &p.Barcode, &p.Phone, &email, &p.City, &p.SchoolClass, &p.Branch, &p.GroupType, &createdAt, &updatedAt)
	if err != nil {
		return entities.Participant{}, err
	}
	p.Email = pgtypeTextToString(email)
	p.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	p.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return p, nil
}

const eventColumns = `id, name, date, description, is_active, created_at, updated_at`

func scanEvent(row rowScanner) (entities.Event, error) {
	var (
		e                          entities.Event
		date, createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&e.ID, &e.Name, &date, &e.Description, &e.IsActive, &createdAt, &updatedAt); err != nil {
		return entities.Event{}, err
	}
	e.Date = pgtypeTimestamptzToTime(date)
	e.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	e.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return e, nil
}

const userColumns = `id, username, password_hash, name, role, is_active, created_at, updated_at`

func scanUser(row rowScanner) (entities.User, error) {
	var (
		u                    entities.User
		role                 string
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &role, &u.IsActive, &createdAt, &updatedAt); err != nil {
		return entities.User{}, err
	}
	u.Role = entities.Role(role)
	u.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	u.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return u, nil
}
