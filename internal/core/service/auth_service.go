package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
	"github.com/todoapp/todo-api/internal/core/security"
)

// AuthService implements registration, login, logout and bearer token resolution.
type AuthService struct {
	users   ports.UserRepository
	hasher  security.PasswordHasher
	tokens  *security.TokenService
	revoker ports.TokenRevoker
	audit   ports.AuditSink
	logger  zerolog.Logger
}

var (
	_ ports.AuthService      = (*AuthService)(nil)
	_ ports.IdentityResolver = (*AuthService)(nil)
)

// NewAuthService wires the service. revoker may be nil, which disables logout
// and the denylist check.
func NewAuthService(
	users ports.UserRepository,
	hasher security.PasswordHasher,
	tokens *security.TokenService,
	revoker ports.TokenRevoker,
	audit ports.AuditSink,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
		audit:   audit,
		logger:  logger,
	}
}

// RevocationEnabled reports whether Logout can be used.
func (s *AuthService) RevocationEnabled() bool { return s.revoker != nil }

// Register creates a regular user account.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	s.record(domain.AuthEvent{Type: domain.AuthEventRegistered, UserID: created.ID, Username: created.Username})
	return created, nil
}

// Login checks the credentials and issues a session token. An unknown
// username and a wrong password are reported differently.
func (s *AuthService) Login(ctx context.Context, username, password, remoteAddr string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.record(domain.AuthEvent{
				Type: domain.AuthEventLoginFailure, Username: username,
				Detail: "unknown user", RemoteAddr: remoteAddr,
			})
		}
		return "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.record(domain.AuthEvent{
			Type: domain.AuthEventLoginFailure, UserID: user.ID, Username: user.Username,
			Detail: "wrong password", RemoteAddr: remoteAddr,
		})
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.record(domain.AuthEvent{
		Type: domain.AuthEventLoginSuccess, UserID: user.ID, Username: user.Username, RemoteAddr: remoteAddr,
	})
	return token, nil
}

// Logout denylists token until it would have expired on its own.
func (s *AuthService) Logout(ctx context.Context, user *domain.User, token string) error {
	if s.revoker == nil {
		return domain.ErrRevocationDisabled
	}
	expires, ok := s.tokens.ExpiresAt(token)
	if !ok {
		return domain.ErrInvalidToken
	}
	if err := s.revoker.Revoke(ctx, token, expires); err != nil {
		return err
	}

	s.record(domain.AuthEvent{Type: domain.AuthEventLogout, UserID: user.ID, Username: user.Username})
	return nil
}

// Resolve maps a bearer token to its user. A token that fails verification,
// has been revoked or names a user that no longer exists yields
// domain.ErrInvalidToken. Other errors come from the stores and are not
// authentication failures.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	userID, ok := s.tokens.Verify(token)
	if !ok {
		s.logger.Debug().Msg("token rejected")
		return nil, domain.ErrInvalidToken
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, token)
		if err != nil {
			return nil, err
		}
		if revoked {
			s.logger.Debug().Int64("user_id", userID).Msg("revoked token presented")
			return nil, domain.ErrInvalidToken
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Debug().Int64("user_id", userID).Msg("token subject no longer exists")
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) record(event domain.AuthEvent) {
	if s.audit == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	s.audit.Record(event)
}
