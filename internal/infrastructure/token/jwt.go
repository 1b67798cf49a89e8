// Package token issues and validates HS256 session tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/ports/output"
)

// DefaultTTL is the lifetime of a session token.
const DefaultTTL = 24 * time.Hour

const issuer = "checkin"

var _ output.TokenIssuer = (*JWT)(nil)

type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// JWT signs session tokens with a shared secret.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a JWT issuer.
type Option func(*JWT)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) { j.now = now }
}

// NewJWT returns an issuer for secret. A non-positive ttl selects DefaultTTL.
func NewJWT(secret []byte, ttl time.Duration, opts ...Option) (*JWT, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	j := &JWT{secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

func (j *JWT) Issue(userID string, role entities.Role) (string, error) {
	now := j.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		Role: string(role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (j *JWT) Validate(token string) (output.TokenClaims, error) {
	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return output.TokenClaims{}, mapJWTError(err)
	}

	role := entities.Role(parsed.Role)
	if parsed.Subject == "" || !role.Valid() || parsed.IssuedAt == nil {
		return output.TokenClaims{}, domain.ErrTokenMalformed
	}
	return output.TokenClaims{
		UserID:    parsed.Subject,
		Role:      role,
		IssuedAt:  parsed.IssuedAt.Time,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}

// mapJWTError translates jwt library errors to domain token errors.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	default:
		return domain.ErrTokenMalformed
	}
}
