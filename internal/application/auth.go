package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/ports/output"
)

// Operator password bounds. The upper one is bcrypt's input limit, in bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// AuthService verifies operator credentials and session tokens.
type AuthService struct {
	userRepo output.UserRepository
	hasher   output.PasswordHasher
	tokens   output.TokenIssuer
	logger   *slog.Logger

	decoyOnce sync.Once
	decoyHash string
}

func NewAuthService(
	userRepo output.UserRepository,
	hasher output.PasswordHasher,
	tokens output.TokenIssuer,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// VerifyCredentials returns the operator matching username and password.
// Unknown users, wrong passwords and deactivated users all fail with
// domain.ErrInvalidCredentials; only the log tells them apart.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (*entities.User, error) {
	username = normalizeUsername(username)
	if username == "" {
		return nil, domain.Required("username")
	}
	if password == "" {
		return nil, domain.Required("password")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		// Unknown users pay for a comparison too; login timing stays uniform.
		_ = s.hasher.Compare(s.decoy(), password)
		s.rejectLogin(ctx, username, "unknown_user")
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.rejectLogin(ctx, username, "password_mismatch")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.rejectLogin(ctx, username, "inactive_user")
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// decoy returns a hash at the configured cost that no login password matches.
func (s *AuthService) decoy() string {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.logger.Warn("decoy password hash", slog.Any("err", err))
			return
		}
		s.decoyHash = hash
	})
	return s.decoyHash
}

func (s *AuthService) rejectLogin(ctx context.Context, username, reason string) {
	s.logger.InfoContext(ctx, "login rejected", slog.String("username", username), slog.String("reason", reason))
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (_ string, _ *entities.User, err error) {
	ctx, span := startSpan(ctx, "AuthService.Login")
	defer func() { endSpan(span, err) }()

	user, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	span.SetAttributes(attribute.String("checkin.user_id", user.ID))
	return token, user, nil
}

// Authenticate resolves a bearer token to the operator it was issued to. The
// stored operator must still exist and be active; its current role is the one
// that counts.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("find token user: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*entities.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// ChangePassword replaces the operator's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if current == "" {
		return domain.Required("currentPassword")
	}
	if next == "" {
		return domain.Required("newPassword")
	}
	if err := checkPasswordLength(next); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(user.PasswordHash, current); err != nil {
		return domain.ErrCurrentPasswordMismatch
	}
	return s.SetPassword(ctx, userID, next)
}

// SetPassword hashes and stores a new password without checking the old one.
func (s *AuthService) SetPassword(ctx context.Context, userID, plaintext string) error {
	return setPassword(ctx, s.userRepo, s.hasher, userID, plaintext)
}

func setPassword(ctx context.Context, repo output.UserRepository, hasher output.PasswordHasher, userID, plaintext string) error {
	if err := checkPasswordLength(plaintext); err != nil {
		return err
	}
	hash, err := hasher.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return repo.UpdatePassword(ctx, userID, hash)
}

func checkPasswordLength(plaintext string) error {
	switch {
	case len(plaintext) < MinPasswordLength:
		return domain.ErrPasswordTooShort
	case len(plaintext) > MaxPasswordLength:
		return domain.ErrPasswordTooLong
	}
	return nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
