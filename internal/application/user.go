package application

import (
	"context"
	"fmt"
	"strings"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/ports/output"
)

// scannerRoles are the roles that can operate a scanner station.
var scannerRoles = []entities.Role{entities.RoleScanner, entities.RoleAdmin}

// UserService manages operator accounts.
type UserService struct {
	userRepo output.UserRepository
	hasher   output.PasswordHasher
}

func NewUserService(userRepo output.UserRepository, hasher output.PasswordHasher) *UserService {
	return &UserService{userRepo: userRepo, hasher: hasher}
}

// CreateUser stores u with the hash of password. An empty role means scanner.
func (s *UserService) CreateUser(ctx context.Context, u *entities.User, password string) error {
	normalizeUser(u)
	if u.Role == "" {
		u.Role = entities.RoleScanner
	}
	if err := validateUser(u); err != nil {
		return err
	}
	if password == "" {
		return domain.Required("password")
	}
	if err := checkPasswordLength(password); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	return s.userRepo.Create(ctx, u)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id string, patch entities.UserPatch) (*entities.User, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(u)
	normalizeUser(u)
	if err := validateUser(u); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.userRepo.Delete(ctx, id)
}

func (s *UserService) ToggleUserStatus(ctx context.Context, id string) (*entities.User, error) {
	return s.userRepo.ToggleActive(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, filter entities.UserFilter) (entities.Page[entities.User], error) {
	page, err := normalizePage(filter.Page, userPageDefaults)
	if err != nil {
		return entities.Page[entities.User]{}, err
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return entities.Page[entities.User]{}, domain.Invalid("role")
	}
	filter.Page = page
	items, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return entities.Page[entities.User]{}, fmt.Errorf("list users: %w", err)
	}
	return entities.NewPage(items, page, total), nil
}

// ListScanners returns the active operators allowed to scan.
func (s *UserService) ListScanners(ctx context.Context) ([]entities.User, error) {
	return s.userRepo.FindScanners(ctx, scannerRoles)
}

// ResetPassword sets a new password chosen by an administrator.
func (s *UserService) ResetPassword(ctx context.Context, id, password string) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return setPassword(ctx, s.userRepo, s.hasher, id, password)
}

// EnsureAdmin creates an administrator when no operator exists yet. It
// reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	n, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	admin := &entities.User{Username: username, Name: username, Role: entities.RoleAdmin, IsActive: true}
	if err := s.CreateUser(ctx, admin, password); err != nil {
		return false, err
	}
	return true, nil
}

func normalizeUser(u *entities.User) {
	u.Username = normalizeUsername(u.Username)
	u.Name = strings.TrimSpace(u.Name)
}

func validateUser(u *entities.User) error {
	switch {
	case u.Username == "":
		return domain.Required("username")
	case u.Name == "":
		return domain.Required("name")
	case !u.Role.Valid():
		return domain.Invalid("role")
	}
	return nil
}
