package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
)

func TestCreateUser(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	u := &entities.User{Username: " Gate ", Name: "Gate", IsActive: true}
	if err := a.users.CreateUser(ctx, u, "secret1"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Username != "gate" || u.Role != entities.RoleScanner || u.PasswordHash == "" || u.PasswordHash == "secret1" {
		t.Fatalf("user = %+v", u)
	}

	tests := []struct {
		name     string
		user     entities.User
		password string
		want     error
	}{
		{"duplicate username", entities.User{Username: "gate", Name: "x"}, "secret1", domain.ErrDuplicateKey},
		{"short password", entities.User{Username: "a", Name: "x"}, "123", domain.ErrPasswordTooShort},
		{"no password", entities.User{Username: "b", Name: "x"}, "", domain.ErrFieldRequired},
		{"long password", entities.User{Username: "e", Name: "x"}, strings.Repeat("x", 100), domain.ErrPasswordTooLong},
		{"no name", entities.User{Username: "c"}, "secret1", domain.ErrFieldRequired},
		{"bad role", entities.User{Username: "d", Name: "x", Role: "owner"}, "secret1", domain.ErrFieldInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := a.users.CreateUser(ctx, &tt.user, tt.password); !errors.Is(err, tt.want) {
				t.Fatalf("CreateUser = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEnsureAdmin(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	created, err := a.users.EnsureAdmin(ctx, "root", "secret1")
	if err != nil || !created {
		t.Fatalf("EnsureAdmin = %v, %v", created, err)
	}
	created, err = a.users.EnsureAdmin(ctx, "root2", "secret1")
	if err != nil || created {
		t.Fatalf("second EnsureAdmin = %v, %v", created, err)
	}
	if _, u, err := a.auth.Login(ctx, "root", "secret1"); err != nil || u.Role != entities.RoleAdmin {
		t.Fatalf("admin login = %+v, %v", u, err)
	}
}

func TestListScannersAndUsers(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	a.user(t, "admin", entities.RoleAdmin)
	a.user(t, "gate", entities.RoleScanner)
	a.user(t, "watch", entities.RoleViewer)

	scanners, err := a.users.ListScanners(ctx)
	if err != nil {
		t.Fatalf("ListScanners: %v", err)
	}
	if len(scanners) != 2 {
		t.Fatalf("scanners = %+v", scanners)
	}

	page, err := a.users.ListUsers(ctx, entities.UserFilter{Role: entities.RoleViewer})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if page.Pagination.Total != 1 || page.Items[0].Username != "watch" {
		t.Fatalf("viewers = %+v", page)
	}
	if _, err := a.users.ListUsers(ctx, entities.UserFilter{Role: "owner"}); domain.Field(err) != "role" {
		t.Fatalf("bad role filter = %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	u := a.user(t, "gate", entities.RoleScanner)

	if err := a.users.ResetPassword(ctx, "missing", "newpass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("missing user = %v", err)
	}
	err := a.users.ResetPassword(ctx, u.ID, strings.Repeat("é", MaxPasswordLength/2+1))
	if !errors.Is(err, domain.ErrPasswordTooLong) || domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("long password = %v", err)
	}
	if err := a.users.ResetPassword(ctx, u.ID, "newpass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, _, err := a.auth.Login(ctx, "gate", "newpass"); err != nil {
		t.Fatalf("login after reset: %v", err)
	}
}
