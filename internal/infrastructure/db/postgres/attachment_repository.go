package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

// AttachmentRepository implements ports.AttachmentRepository using PostgreSQL.
type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) ports.AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *domain.Attachment) (*domain.Attachment, error) {
	m := &attachmentModel{FilePath: a.FilePath, TaskID: a.TaskID}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("insert attachment: %w", err)
	}
	return m.toDomain(), nil
}

func (r *AttachmentRepository) FindByID(ctx context.Context, id int64) (*domain.Attachment, error) {
	var m attachmentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("find attachment %d: %w", id, err)
	}
	return m.toDomain(), nil
}

func (r *AttachmentRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&attachmentModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete attachment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAttachmentNotFound
	}
	return nil
}
