package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

// SubTaskRepository implements ports.SubTaskRepository using PostgreSQL.
type SubTaskRepository struct {
	db *gorm.DB
}

func NewSubTaskRepository(db *gorm.DB) ports.SubTaskRepository {
	return &SubTaskRepository{db: db}
}

func (r *SubTaskRepository) Create(ctx context.Context, sub *domain.SubTask) (*domain.SubTask, error) {
	m := &subTaskModel{Name: sub.Name, Description: sub.Description, TaskID: sub.TaskID}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("insert sub task: %w", err)
	}
	return r.FindByID(ctx, m.ID)
}

// FindByID loads the sub-task together with the owner of its parent task.
func (r *SubTaskRepository) FindByID(ctx context.Context, id int64) (*domain.SubTask, error) {
	var row subTaskRow
	err := r.db.WithContext(ctx).
		Table("sub_tasks").
		Select("sub_tasks.*, tasks.user_id").
		Joins("JOIN tasks ON tasks.id = sub_tasks.task_id").
		Where("sub_tasks.id = ?", id).
		Take(&row).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrSubTaskNotFound
		}
		return nil, fmt.Errorf("find sub task %d: %w", id, err)
	}
	return row.toDomain(), nil
}

func (r *SubTaskRepository) Update(ctx context.Context, sub *domain.SubTask) (*domain.SubTask, error) {
	m := &subTaskModel{ID: sub.ID, Name: sub.Name, Description: sub.Description, TaskID: sub.TaskID}
	res := r.db.WithContext(ctx).Model(m).Select("name", "description", "updated_at").Updates(m)
	if res.Error != nil {
		return nil, fmt.Errorf("update sub task %d: %w", sub.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrSubTaskNotFound
	}
	return r.FindByID(ctx, sub.ID)
}

func (r *SubTaskRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&subTaskModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete sub task %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrSubTaskNotFound
	}
	return nil
}
