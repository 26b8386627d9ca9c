package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

type UserService struct {
	users ports.UserRepository
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(users ports.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Profile counts the user's tasks by status.
func (s *UserService) Profile(ctx context.Context, user *domain.User) (domain.TaskStats, error) {
	return s.users.TaskStats(ctx, user.ID)
}

// AdminService backs the admin panel.
type AdminService struct {
	users    ports.UserRepository
	audit    ports.AuditSink
	auditLog ports.AuditRepository
	logger   zerolog.Logger
}

var _ ports.AdminService = (*AdminService)(nil)

// NewAdminService wires the service. auditLog may be nil when no audit store
// is configured.
func NewAdminService(users ports.UserRepository, audit ports.AuditSink, auditLog ports.AuditRepository, logger zerolog.Logger) *AdminService {
	return &AdminService{users: users, audit: audit, auditLog: auditLog, logger: logger}
}

func (s *AdminService) Users(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *AdminService) EditRole(ctx context.Context, actor *domain.User, userID int64, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	before, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("actor_id", actor.ID).
		Int64("user_id", userID).
		Str("from", string(before.Role)).
		Str("to", string(role)).
		Msg("role changed")
	if s.audit != nil {
		s.audit.Record(domain.AuthEvent{
			Type:     domain.AuthEventRoleChanged,
			UserID:   updated.ID,
			Username: updated.Username,
			ActorID:  actor.ID,
			Detail:   fmt.Sprintf("%s -> %s", before.Role, role),
		})
	}
	return updated, nil
}

func (s *AdminService) TaskStatsByUser(ctx context.Context) ([]domain.UserTaskStats, error) {
	return s.users.TaskStatsByUser(ctx)
}

const (
	defaultEventLimit = 50
	maxEventLimit     = 100
)

func (s *AdminService) AuthEvents(ctx context.Context, userID int64, limit int64) ([]domain.AuthEvent, error) {
	if s.auditLog == nil {
		return nil, domain.ErrAuditDisabled
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = defaultEventLimit
	case limit > maxEventLimit:
		limit = maxEventLimit
	}
	return s.auditLog.ListByUser(ctx, userID, limit)
}
