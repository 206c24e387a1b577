package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/boetepot/platform/internal/domain"
	"github.com/boetepot/platform/internal/guard"
	"golang.org/x/crypto/bcrypt"
)

const maxPasswordBytes = 72

// AuthService checks the shared admin password.
//
// A successful login issues nothing: the client keeps its own "is admin" flag
// and the mutating endpoints stay open.
type AuthService struct {
	hash    []byte
	limiter *guard.RateLimiter
	lockout *guard.Lockout
	logger  *slog.Logger
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithLockout blocks clients after repeated wrong passwords.
func WithLockout(l *guard.Lockout) AuthOption {
	return func(s *AuthService) { s.lockout = l }
}

// NewAuthService creates an AuthService from a bcrypt hash of the admin password.
// A nil limiter disables attempt limiting.
func NewAuthService(passwordHash []byte, limiter *guard.RateLimiter, logger *slog.Logger, opts ...AuthOption) (*AuthService, error) {
	if _, err := bcrypt.Cost(passwordHash); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}
	s := &AuthService{hash: passwordHash, limiter: limiter, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// HashPassword bcrypt-hashes a plaintext admin password.
func HashPassword(plain string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// LoginInput holds the login request fields.
type LoginInput struct {
	Password string `json:"password"`
}

// Login compares the submitted password with the admin password.
// clientKey identifies the caller for attempt limiting (usually the client IP).
func (s *AuthService) Login(ctx context.Context, input LoginInput, clientKey string) error {
	if input.Password == "" {
		return domain.ErrValidation("Password is required")
	}

	if s.limiter != nil {
		if res := s.limiter.Check(ctx, clientKey); !res.Allowed {
			s.logger.WarnContext(ctx, "login rate limited", "client", clientKey, "reason", res.Reason)
			return domain.ErrTooManyRequests("Te veel inlogpogingen, probeer het later opnieuw")
		}
	}

	if s.lockout != nil {
		if res := s.lockout.Check(ctx, clientKey); !res.Allowed {
			s.logger.WarnContext(ctx, "login locked out", "client", clientKey, "reason", res.Reason)
			return domain.ErrAccountLocked("Te veel mislukte inlogpogingen, probeer het later opnieuw")
		}
	}

	// bcrypt only looks at the first 72 bytes; anything longer cannot be the password.
	if len(input.Password) > maxPasswordBytes {
		return s.failed(ctx, clientKey)
	}

	err := bcrypt.CompareHashAndPassword(s.hash, []byte(input.Password))
	switch {
	case err == nil:
		if s.lockout != nil {
			s.lockout.RecordSuccess(clientKey)
		}
		s.logger.InfoContext(ctx, "admin login succeeded", "client", clientKey)
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return s.failed(ctx, clientKey)
	default:
		return domain.ErrInternal("Login failed", err)
	}
}

func (s *AuthService) failed(ctx context.Context, clientKey string) error {
	if s.lockout != nil {
		s.lockout.RecordFailure(clientKey)
	}
	s.logger.WarnContext(ctx, "admin login failed", "client", clientKey)
	return domain.ErrUnauthorized("Incorrect password")
}
