package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/domain/stats"
	"checkin/internal/ports/output"
)

var _ output.EntryRepository = (*EntryRepository)(nil)

// EntryRepository stores the entry ledger. The entries_participant_event_key
// constraint is what makes check-in at-most-once under concurrency.
type EntryRepository struct {
	db DBTX
}

func NewEntryRepository(db DBTX) *EntryRepository {
	return &EntryRepository{db: db}
}

var entrySortColumns = map[string]string{
	"entryTime": "en.entry_time",
	"method":    "en.method",
	"createdAt": "en.created_at",
}

// entryDetailsSelect joins the projections of an entry. The scanner's
// password hash is never selected.
const entryDetailsSelect = `
SELECT en.id, en.participant_id, en.event_id, en.scanner_id, en.entry_time, en.method, en.created_at,
       p.id, p.name, p.family, p.barcode, p.phone, p.email, p.city, p.school_class, p.branch, p.group_type, p.created_at, p.updated_at,
       ev.id, ev.name, ev.date, ev.description, ev.is_active, ev.created_at, ev.updated_at,
       u.id, u.username, u.name, u.role, u.is_active, u.created_at, u.updated_at
FROM entries en
JOIN participants p ON p.id = en.participant_id
JOIN events ev ON ev.id = en.event_id
JOIN users u ON u.id = en.scanner_id`

func scanEntryDetails(row rowScanner) (entities.EntryDetails, error) {
	var (
		d                            entities.EntryDetails
		p                            entities.Participant
		ev                           entities.Event
		u                            entities.User
		method, role                 string
		email                        pgtype.Text
		entryTime, createdAt         pgtype.Timestamptz
		pCreated, pUpdated           pgtype.Timestamptz
		evDate, evCreated, evUpdated pgtype.Timestamptz
		uCreated, uUpdated           pgtype.Timestamptz
	)
	err := row.Scan(
		&d.ID, &d.ParticipantID, &d.EventID, &d.ScannerID, &entryTime, &method, &createdAt,
		&p.ID, &p.Name, &p.Family, &p.Barcode, &p.Phone, &email, &p.City, &p.SchoolClass, &p.Branch, &p.GroupType, &pCreated, &pUpdated,
		&ev.ID, &ev.Name, &evDate, &ev.Description, &ev.IsActive, &evCreated, &evUpdated,
		&u.ID, &u.Username, &u.Name, &role, &u.IsActive, &uCreated, &uUpdated,
	)
	if err != nil {
		return entities.EntryDetails{}, err
	}
	d.Method = entities.EntryMethod(method)
	d.EntryTime = pgtypeTimestamptzToTime(entryTime)
	d.CreatedAt = pgtypeTimestamptzToTime(createdAt)

	p.Email = pgtypeTextToString(email)
	p.CreatedAt = pgtypeTimestamptzToTime(pCreated)
	p.UpdatedAt = pgtypeTimestamptzToTime(pUpdated)
	ev.Date = pgtypeTimestamptzToTime(evDate)
	ev.CreatedAt = pgtypeTimestamptzToTime(evCreated)
	ev.UpdatedAt = pgtypeTimestamptzToTime(evUpdated)
	u.Role = entities.Role(role)
	u.CreatedAt = pgtypeTimestamptzToTime(uCreated)
	u.UpdatedAt = pgtypeTimestamptzToTime(uUpdated)

	d.Participant, d.Event, d.Scanner = &p, &ev, &u
	return d, nil
}

// Create inserts the entry. A concurrent insert for the same pair loses on
// the unique constraint and surfaces as domain.ErrDuplicateEntry.
func (r *EntryRepository) Create(ctx context.Context, e *entities.Entry) error {
	for _, ref := range []struct {
		id  string
		err error
	}{
		{e.ParticipantID, domain.ErrParticipantNotFound},
		{e.EventID, domain.ErrEventNotFound},
		{e.ScannerID, domain.ErrUserNotFound},
	} {
		if !validID(ref.id) {
			return ref.err
		}
	}

	var entryTime, createdAt pgtype.Timestamptz
	err := r.db.QueryRow(ctx, `
INSERT INTO entries (id, participant_id, event_id, scanner_id, entry_time, method)
VALUES ($1, $2, $3, $4, COALESCE($5, now()), $6)
RETURNING id, entry_time, created_at`,
		uuid.NewString(), e.ParticipantID, e.EventID, e.ScannerID, timeToPgtypeTimestamptz(e.EntryTime), string(e.Method),
	).Scan(&e.ID, &entryTime, &createdAt)
	if err != nil {
		if derr := translateWriteError(err); derr != nil {
			return derr
		}
		return fmt.Errorf("create entry: %w", err)
	}
	e.EntryTime = pgtypeTimestamptzToTime(entryTime)
	e.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	return nil
}

func (r *EntryRepository) FindByID(ctx context.Context, id string) (*entities.EntryDetails, error) {
	if !validID(id) {
		return nil, domain.ErrEntryNotFound
	}
	d, err := scanEntryDetails(r.db.QueryRow(ctx, entryDetailsSelect+` WHERE en.id = $1`, id))
	if isNoRows(err) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry by id: %w", err)
	}
	return &d, nil
}

func (r *EntryRepository) FindByParticipantAndEvent(ctx context.Context, participantID, eventID string) (*entities.EntryDetails, error) {
	if !validID(participantID) || !validID(eventID) {
		return nil, domain.ErrEntryNotFound
	}
	d, err := scanEntryDetails(r.db.QueryRow(ctx, entryDetailsSelect+` WHERE en.participant_id = $1 AND en.event_id = $2`, participantID, eventID))
	if isNoRows(err) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry by participant and event: %w", err)
	}
	return &d, nil
}

func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrEntryNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *EntryRepository) List(ctx context.Context, filter entities.EntryFilter) ([]entities.EntryDetails, int64, error) {
	// Ids that cannot exist match nothing.
	if (filter.EventID != "" && !validID(filter.EventID)) || (filter.ParticipantID != "" && !validID(filter.ParticipantID)) {
		return []entities.EntryDetails{}, 0, nil
	}
	const where = ` WHERE ($1 = '' OR en.event_id::text = $1) AND ($2 = '' OR en.participant_id::text = $2)`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM entries en`+where, filter.EventID, filter.ParticipantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	sql := entryDetailsSelect + where + orderBy(entrySortColumns, filter.Page, "en.entry_time", "en.id") + ` LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, sql, filter.EventID, filter.ParticipantID, filter.Page.Limit, filter.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	out := []entities.EntryDetails{}
	for rows.Next() {
		d, err := scanEntryDetails(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	return out, total, nil
}

func (r *EntryRepository) CountByMethod(ctx context.Context, eventID string) (stats.MethodCounts, error) {
	counts := stats.MethodCounts{entities.MethodBarcode: 0, entities.MethodManual: 0}
	if eventID != "" && !validID(eventID) {
		return counts, nil
	}
	rows, err := r.db.Query(ctx, `
SELECT method, count(*) FROM entries
WHERE $1 = '' OR event_id::text = $1
GROUP BY method`, eventID)
	if err != nil {
		return nil, fmt.Errorf("count entries by method: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			method string
			n      int64
		)
		if err := rows.Scan(&method, &n); err != nil {
			return nil, fmt.Errorf("scan method count: %w", err)
		}
		counts[entities.EntryMethod(method)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count entries by method: %w", err)
	}
	return counts, nil
}

func (r *EntryRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	if !validID(eventID) {
		return 0, nil
	}
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM entries WHERE event_id = $1`, eventID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries by event: %w", err)
	}
	return n, nil
}

// CountByBucket floors entry times on the epoch-millisecond axis, the same
// arithmetic as stats.BucketStart.
func (r *EntryRepository) CountByBucket(ctx context.Context, size time.Duration) ([]stats.Bucket, error) {
	b := size.Milliseconds()
	if b <= 0 {
		b = stats.DefaultBucketSize.Milliseconds()
	}
	rows, err := r.db.Query(ctx, `
SELECT (floor(extract(epoch FROM entry_time) * 1000)::bigint / $1) * $1 AS bucket, count(*)
FROM entries
GROUP BY bucket
ORDER BY bucket ASC`, b)
	if err != nil {
		return nil, fmt.Errorf("count entries by bucket: %w", err)
	}
	defer rows.Close()

	out := []stats.Bucket{}
	for rows.Next() {
		var start, n int64
		if err := rows.Scan(&start, &n); err != nil {
			return nil, fmt.Errorf("scan bucket: %w", err)
		}
		out = append(out, stats.Bucket{Start: time.UnixMilli(start).UTC(), Count: n})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count entries by bucket: %w", err)
	}
	return out, nil
}

func (r *EntryRepository) Timeline(ctx context.Context, eventID string) ([]stats.TimelinePoint, error) {
	if !validID(eventID) {
		return []stats.TimelinePoint{}, nil
	}
	rows, err := r.db.Query(ctx, `
SELECT entry_time, participant_id, method FROM entries
WHERE event_id = $1
ORDER BY entry_time ASC, id ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("event timeline: %w", err)
	}
	points, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (stats.TimelinePoint, error) {
		var (
			at     pgtype.Timestamptz
			pt     stats.TimelinePoint
			method string
		)
		if err := row.Scan(&at, &pt.ParticipantID, &method); err != nil {
			return pt, err
		}
		pt.EntryTime = pgtypeTimestamptzToTime(at)
		pt.Method = entities.EntryMethod(method)
		return pt, nil
	})
	if err != nil {
		return nil, fmt.Errorf("event timeline: %w", err)
	}
	return points, nil
}
