package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/ports/output"
)

var _ output.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	s *Store
}

var userFields = map[string]compareFunc[entities.User]{
	"username":  byString(func(u entities.User) string { return u.Username }),
	"name":      byString(func(u entities.User) string { return u.Name }),
	"role":      byString(func(u entities.User) string { return string(u.Role) }),
	"isActive":  byBool(func(u entities.User) bool { return u.IsActive }),
	"createdAt": byTime(func(u entities.User) time.Time { return u.CreatedAt }),
	"updatedAt": byTime(func(u entities.User) time.Time { return u.UpdatedAt }),
}

func (r *UserRepository) usernameTaken(u *entities.User) bool {
	for id, other := range r.s.users {
		if id != u.ID && other.Username == u.Username {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(_ context.Context, u *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u.ID = r.s.newID()
	if r.usernameTaken(u) {
		return domain.DuplicateKey("username")
	}
	now := r.s.timestamp()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) Update(_ context.Context, u *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if r.usernameTaken(u) {
		return domain.DuplicateKey("username")
	}
	u.PasswordHash = current.PasswordHash
	u.CreatedAt = current.CreatedAt
	u.UpdatedAt = r.s.timestamp()
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.s.timestamp()
	r.s.users[id] = u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	for _, e := range r.s.entries {
		if e.ScannerID == id {
			return domain.ErrUserHasEntries
		}
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepository) List(_ context.Context, filter entities.UserFilter) ([]entities.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matches := make([]entities.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Active != nil && u.IsActive != *filter.Active {
			continue
		}
		matches = append(matches, u)
	}
	total := int64(len(matches))
	return sortAndPage(matches, filter.Page, userFields, func(u entities.User) string { return u.ID }), total, nil
}

func (r *UserRepository) FindScanners(_ context.Context, roles []entities.Role) ([]entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []entities.User{}
	for _, u := range r.s.users {
		if u.IsActive && slices.Contains(roles, u.Role) {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b entities.User) int { return strings.Compare(a.Username, b.Username) })
	return out, nil
}

func (r *UserRepository) ToggleActive(_ context.Context, id string) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.IsActive = !u.IsActive
	u.UpdatedAt = r.s.timestamp()
	r.s.users[id] = u
	return &u, nil
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users)), nil
}
