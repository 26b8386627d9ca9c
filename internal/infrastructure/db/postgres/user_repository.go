package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

// UserRepository implements ports.UserRepository using PostgreSQL.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) ports.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	m := &userModel{Username: user.Username, Password: user.PasswordHash, Role: string(role)}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).Take(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toDomain())
	}
	return users, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error) {
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).
		Updates(map[string]any{"role": string(role), "updated_at": time.Now()})
	if res.Error != nil {
		return nil, fmt.Errorf("update role of user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

const taskStatsQuery = `
SELECT COUNT(*)                                 AS total,
       COUNT(*) FILTER (WHERE status = 'todo')  AS todo,
       COUNT(*) FILTER (WHERE status = 'doing') AS doing,
       COUNT(*) FILTER (WHERE status = 'done')  AS done
FROM tasks
WHERE user_id = ?`

func (r *UserRepository) TaskStats(ctx context.Context, userID int64) (domain.TaskStats, error) {
	var row struct {
		Total, Todo, Doing, Done int64
	}
	if err := r.db.WithContext(ctx).Raw(taskStatsQuery, userID).Scan(&row).Error; err != nil {
		return domain.TaskStats{}, fmt.Errorf("task stats for user %d: %w", userID, err)
	}
	return domain.TaskStats{Total: row.Total, Todo: row.Todo, Doing: row.Doing, Done: row.Done}, nil
}

const taskStatsByUserQuery = `
SELECT u.username                                   AS username,
       COUNT(t.id)                                  AS total,
       COUNT(t.id) FILTER (WHERE t.status = 'done')  AS done,
       COUNT(t.id) FILTER (WHERE t.status = 'todo')  AS todo,
       COUNT(t.id) FILTER (WHERE t.status = 'doing') AS doing
FROM users u
LEFT OUTER JOIN tasks t ON t.user_id = u.id
WHERE u.role <> 'admin'
GROUP BY u.id, u.username
ORDER BY total DESC, u.id`

func (r *UserRepository) TaskStatsByUser(ctx context.Context) ([]domain.UserTaskStats, error) {
	var rows []struct {
		Username                 string
		Total, Done, Todo, Doing int64
	}
	if err := r.db.WithContext(ctx).Raw(taskStatsByUserQuery).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("task stats by user: %w", err)
	}
	stats := make([]domain.UserTaskStats, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, domain.UserTaskStats{
			Username: row.Username,
			Total:    row.Total,
			Done:     row.Done,
			Todo:     row.Todo,
			Doing:    row.Doing,
		})
	}
	return stats, nil
}
