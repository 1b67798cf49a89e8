package output

import (
	"context"

	"checkin/internal/domain/entities"
)

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	// Update writes profile fields; the password hash is left untouched.
	Update(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entities.UserFilter) ([]entities.User, int64, error)
	// FindScanners returns active users holding one of roles.
	FindScanners(ctx context.Context, roles []entities.Role) ([]entities.User, error)
	ToggleActive(ctx context.Context, id string) (*entities.User, error)
	Count(ctx context.Context) (int64, error)
}
