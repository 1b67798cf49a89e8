package output

import (
	"time"

	"checkin/internal/domain/entities"
)

// PasswordHasher hashes and verifies operator passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Compare returns nil when plaintext matches hash.
	Compare(hash, plaintext string) error
}

// TokenClaims is the identity carried by a session token.
type TokenClaims struct {
	UserID    string
	Role      entities.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer issues and validates signed session tokens. Validate fails with
// domain.ErrTokenExpired, domain.ErrTokenMalformed or
// domain.ErrTokenSignatureInvalid.
type TokenIssuer interface {
	Issue(userID string, role entities.Role) (string, error)
	Validate(token string) (TokenClaims, error)
}
