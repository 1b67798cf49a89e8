package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/ports/output"
)

var _ output.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

var userSortColumns = map[string]string{
	"username":  "username",
	"name":      "name",
	"role":      "role",
	"isActive":  "is_active",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func (r *UserRepository) Create(ctx context.Context, u *entities.User) error {
	row := r.db.QueryRow(ctx, `
INSERT INTO users (id, username, password_hash, name, role, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+userColumns,
		uuid.NewString(), u.Username, u.PasswordHash, u.Name, string(u.Role), u.IsActive,
	)
	created, err := scanUser(row)
	if err != nil {
		if derr := translateWriteError(err); derr != nil {
			return derr
		}
		return fmt.Errorf("create user: %w", err)
	}
	*u = created
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	if !validID(id) {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, "id", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *UserRepository) findOne(ctx context.Context, column, value string) (*entities.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value))
	if isNoRows(err) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by %s: %w", column, err)
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entities.User) error {
	if !validID(u.ID) {
		return domain.ErrUserNotFound
	}
	row := r.db.QueryRow(ctx, `
UPDATE users SET username = $2, name = $3, role = $4, is_active = $5, updated_at = now()
WHERE id = $1
RETURNING `+userColumns,
		u.ID, u.Username, u.Name, string(u.Role), u.IsActive,
	)
	updated, err := scanUser(row)
	if isNoRows(err) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		if derr := translateWriteError(err); derr != nil {
			return derr
		}
		return fmt.Errorf("update user: %w", err)
	}
	*u = updated
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if !validID(id) {
		return domain.ErrUserNotFound
	}
	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrUserNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return domain.ErrUserHasEntries
	}
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter entities.UserFilter) ([]entities.User, int64, error) {
	const where = ` WHERE ($1 = '' OR role = $1) AND ($2::boolean IS NULL OR is_active = $2)`
	role := string(filter.Role)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`+where, role, filter.Active).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	sql := `SELECT ` + userColumns + ` FROM users` + where +
		orderBy(userSortColumns, filter.Page, "created_at", "id") + ` LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, sql, role, filter.Active, filter.Page.Limit, filter.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) FindScanners(ctx context.Context, roles []entities.Role) ([]entities.User, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE is_active AND role = ANY($1) ORDER BY username ASC`, names)
	if err != nil {
		return nil, fmt.Errorf("find scanners: %w", err)
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, fmt.Errorf("find scanners: %w", err)
	}
	return users, nil
}

func (r *UserRepository) ToggleActive(ctx context.Context, id string) (*entities.User, error) {
	if !validID(id) {
		return nil, domain.ErrUserNotFound
	}
	u, err := scanUser(r.db.QueryRow(ctx, `
UPDATE users SET is_active = NOT is_active, updated_at = now()
WHERE id = $1
RETURNING `+userColumns, id))
	if isNoRows(err) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("toggle user status: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func collectUsers(rows pgx.Rows) ([]entities.User, error) {
	defer rows.Close()
	out := []entities.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
