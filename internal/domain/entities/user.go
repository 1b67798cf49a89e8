package entities

import "time"

// Role is an operator role. Capabilities are declared per operation, not
// derived from an ordering between roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleScanner Role = "scanner"
	RoleViewer  Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleScanner, RoleViewer:
		return true
	}
	return false
}

// User is an operator of the check-in client.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch carries a partial profile update. Passwords are changed through
// dedicated operations only.
type UserPatch struct {
	Username *string
	Name     *string
	Role     *Role
	IsActive *bool
}

func (patch UserPatch) Apply(u *User) {
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
}

var UserSortFields = []string{"username", "name", "role", "isActive", "createdAt", "updatedAt"}
