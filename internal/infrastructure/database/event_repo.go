package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	db DBTX
}

func NewEventRepository(db DBTX) *EventRepository {
	return &EventRepository{db: db}
}

var eventSortColumns = map[string]string{
	"name":      "name",
	"date":      "date",
	"isActive":  "is_active",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	row := r.db.QueryRow(ctx, `
INSERT INTO events (id, name, date, description, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+eventColumns,
		uuid.NewString(), event.Name, timeToPgtypeTimestamptz(event.Date), event.Description, event.IsActive,
	)
	created, err := scanEvent(row)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	*event = created
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*entities.Event, error) {
	if !validID(id) {
		return nil, domain.ErrEventNotFound
	}
	e, err := scanEvent(r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if isNoRows(err) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) Update(ctx context.Context, event *entities.Event) error {
	if !validID(event.ID) {
		return domain.ErrEventNotFound
	}
	row := r.db.QueryRow(ctx, `
UPDATE events SET name = $2, date = $3, description = $4, is_active = $5, updated_at = now()
WHERE id = $1
RETURNING `+eventColumns,
		event.ID, event.Name, timeToPgtypeTimestamptz(event.Date), event.Description, event.IsActive,
	)
	updated, err := scanEvent(row)
	if isNoRows(err) {
		return domain.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	*event = updated
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrEventNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return domain.ErrEventHasEntries
	}
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) List(ctx context.Context, filter entities.EventFilter) ([]entities.Event, int64, error) {
	// A NULL filter matches every row.
	var active *bool = filter.Active
	const where = ` WHERE ($1::boolean IS NULL OR is_active = $1)`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM events`+where, active).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	sql := `SELECT ` + eventColumns + ` FROM events` + where +
		orderBy(eventSortColumns, filter.Page, "date", "id") + ` LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, sql, active, filter.Page.Limit, filter.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (r *EventRepository) FindActive(ctx context.Context) ([]entities.Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events WHERE is_active ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("find active events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("find active events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) FindBefore(ctx context.Context, t time.Time) ([]entities.Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events WHERE date < $1 ORDER BY date ASC, id ASC`, timeToPgtypeTimestamptz(t))
	if err != nil {
		return nil, fmt.Errorf("find past events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("find past events: %w", err)
	}
	return events, nil
}

// ToggleActive flips the flag in one statement so concurrent toggles never
// read a stale value.
func (r *EventRepository) ToggleActive(ctx context.Context, id string) (*entities.Event, error) {
	if !validID(id) {
		return nil, domain.ErrEventNotFound
	}
	e, err := scanEvent(r.db.QueryRow(ctx, `
UPDATE events SET is_active = NOT is_active, updated_at = now()
WHERE id = $1
RETURNING `+eventColumns, id))
	if isNoRows(err) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("toggle event status: %w", err)
	}
	return &e, nil
}

func collectEvents(rows pgx.Rows) ([]entities.Event, error) {
	defer rows.Close()
	out := []entities.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
