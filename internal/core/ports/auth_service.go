package ports

import (
	"context"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// AuthService covers registration, login and session termination.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password, remoteAddr string) (string, error)
	Logout(ctx context.Context, user *domain.User, token string) error
}

// IdentityResolver turns a bearer token into the user it was issued to.
// Every failure to authenticate is reported as domain.ErrInvalidToken.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}
