package ports

import (
	"context"
	"time"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error)
	// TaskStats counts the tasks of a single user by status.
	TaskStats(ctx context.Context, userID int64) (domain.TaskStats, error)
	// TaskStatsByUser reports per-user task counts for every non-admin user,
	// busiest first.
	TaskStatsByUser(ctx context.Context) ([]domain.UserTaskStats, error)
}

// TokenRevoker is the optional denylist consulted after token verification.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, until time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuditSink receives authentication audit events. Implementations must not block.
type AuditSink interface {
	Record(event domain.AuthEvent)
}

// AuditRepository is the durable store behind the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuthEvent) error
	ListByUser(ctx context.Context, userID int64, limit int64) ([]domain.AuthEvent, error)
}
