// Package access decides whether an operator role may perform an operation.
//
// Every operation declares the exact set of roles it admits. There is no
// ordering between roles: an admin can do something only because the
// operation lists RoleAdmin.
package access

import (
	"strings"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
)

// RoleSet is the set of roles an operation admits.
type RoleSet map[entities.Role]struct{}

// Allow builds a RoleSet.
func Allow(roles ...entities.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports whether role is admitted.
func (s RoleSet) Contains(role entities.Role) bool {
	_, ok := s[role]
	return ok
}

func (s RoleSet) String() string {
	names := make([]string, 0, len(s))
	for _, r := range []entities.Role{entities.RoleAdmin, entities.RoleScanner, entities.RoleViewer} {
		if s.Contains(r) {
			names = append(names, string(r))
		}
	}
	return strings.Join(names, ",")
}

// Common role sets.
var (
	AdminOnly      = Allow(entities.RoleAdmin)
	ScannerOrAdmin = Allow(entities.RoleScanner, entities.RoleAdmin)
	AnyOperator    = Allow(entities.RoleAdmin, entities.RoleScanner, entities.RoleViewer)
)

// Authorize returns domain.ErrForbidden unless role is in allowed.
func Authorize(role entities.Role, allowed RoleSet) error {
	if !allowed.Contains(role) {
		return domain.ErrForbidden
	}
	return nil
}
