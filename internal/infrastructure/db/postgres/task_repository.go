package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

// TaskRepository implements ports.TaskRepository using PostgreSQL.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) ports.TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	m := taskFromDomain(task)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return m.toDomain(), nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id, userID int64) (*domain.Task, error) {
	return r.find(r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID))
}

func (r *TaskRepository) FindAnyByID(ctx context.Context, id int64) (*domain.Task, error) {
	return r.find(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *TaskRepository) find(q *gorm.DB) (*domain.Task, error) {
	var m taskModel
	if err := q.Take(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return m.toDomain(), nil
}

func (r *TaskRepository) ExistsByName(ctx context.Context, userID int64, name string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&taskModel{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("count tasks named %q: %w", name, err)
	}
	return n > 0, nil
}

func (r *TaskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", filter.UserID)
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", int16(*filter.Priority))
	}
	if filter.DueBefore != nil {
		q = q.Where("due_date <= ?", *filter.DueBefore)
	}

	var rows []taskModel
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]*domain.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, rows[i].toDomain())
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	m := taskFromDomain(task)
	res := r.db.WithContext(ctx).Model(m).
		Select("name", "description", "category_id", "due_date", "status", "priority", "updated_at").
		Updates(m)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update task %d: %w", task.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return r.FindAnyByID(ctx, task.ID)
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&taskModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete task %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
