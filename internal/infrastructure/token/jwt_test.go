package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestIssueAndValidate(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	j, err := NewJWT(testSecret, time.Hour, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}
	tok, err := j.Issue("user-1", entities.RoleScanner)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := j.Validate(tok)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != entities.RoleScanner {
		t.Fatalf("claims = %+v", claims)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("ExpiresAt = %v", claims.ExpiresAt)
	}
}

func TestValidateErrors(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := now
	j, err := NewJWT(testSecret, time.Hour, WithClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}
	tok, err := j.Issue("user-1", entities.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	other, err := NewJWT([]byte("another-secret-another-secret!!"), time.Hour, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		issuer *JWT
		at     time.Time
		want   error
	}{
		{"expired", tok, j, now.Add(2 * time.Hour), domain.ErrTokenExpired},
		{"wrong secret", tok, other, now, domain.ErrTokenSignatureInvalid},
		{"garbage", "not-a-token", j, now, domain.ErrTokenMalformed},
		{"truncated", tok[:strings.LastIndex(tok, ".")], j, now, domain.ErrTokenMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock = tt.at
			_, err := tt.issuer.Validate(tt.token)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewJWTDefaults(t *testing.T) {
	if _, err := NewJWT(nil, time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	j, err := NewJWT(testSecret, 0)
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}
	if j.ttl != DefaultTTL {
		t.Fatalf("ttl = %v, want %v", j.ttl, DefaultTTL)
	}
}
