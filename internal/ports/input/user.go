package input

import (
	"context"

	"checkin/internal/domain/entities"
)

type AuthUseCase interface {
	Login(ctx context.Context, username, password string) (string, *entities.User, error)
	Authenticate(ctx context.Context, token string) (*entities.User, error)
	Profile(ctx context.Context, userID string) (*entities.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
}

type UserUseCase interface {
	CreateUser(ctx context.Context, u *entities.User, password string) error
	GetUser(ctx context.Context, id string) (*entities.User, error)
	UpdateUser(ctx context.Context, id string, patch entities.UserPatch) (*entities.User, error)
	DeleteUser(ctx context.Context, id string) error
	ToggleUserStatus(ctx context.Context, id string) (*entities.User, error)
	ListUsers(ctx context.Context, filter entities.UserFilter) (entities.Page[entities.User], error)
	ListScanners(ctx context.Context) ([]entities.User, error)
	ResetPassword(ctx context.Context, id, password string) error
}
