package ports

import (
	"context"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// TaskRepository defines persistence for tasks and their sub-tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// FindByID returns the task only when it belongs to userID.
	FindByID(ctx context.Context, id, userID int64) (*domain.Task, error)
	// FindAnyByID ignores ownership; callers enforce it.
	FindAnyByID(ctx context.Context, id int64) (*domain.Task, error)
	ExistsByName(ctx context.Context, userID int64, name string) (bool, error)
	List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
}

type SubTaskRepository interface {
	Create(ctx context.Context, sub *domain.SubTask) (*domain.SubTask, error)
	FindByID(ctx context.Context, id int64) (*domain.SubTask, error)
	Update(ctx context.Context, sub *domain.SubTask) (*domain.SubTask, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type AttachmentRepository interface {
	Create(ctx context.Context, a *domain.Attachment) (*domain.Attachment, error)
	FindByID(ctx context.Context, id int64) (*domain.Attachment, error)
	Delete(ctx context.Context, id int64) error
}
