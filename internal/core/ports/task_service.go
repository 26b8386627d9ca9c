package ports

import (
	"context"
	"io"
	"time"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// CreateTaskInput carries the fields of a new task.
type CreateTaskInput struct {
	UserID      int64
	Name        string
	Description *string
	CategoryID  int64
	DueDate     time.Time
	Priority    domain.Priority
}

type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, userID int64) ([]*domain.Task, error)
	Filter(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)
	Get(ctx context.Context, id, userID int64) (*domain.Task, error)
	Update(ctx context.Context, id, userID int64, upd domain.TaskUpdate) (*domain.Task, error)
	Delete(ctx context.Context, id, userID int64) error
}

type SubTaskService interface {
	Create(ctx context.Context, userID, taskID int64, name string, description *string) (*domain.SubTask, error)
	Get(ctx context.Context, id, userID int64) (*domain.SubTask, error)
	Update(ctx context.Context, id, userID int64, name, description *string) (*domain.SubTask, error)
	Delete(ctx context.Context, id, userID int64) error
}

// Upload is a file received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type CategoryService interface {
	Create(ctx context.Context, name, color string, icon Upload) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	Update(ctx context.Context, id int64, name, color *string) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type AttachmentService interface {
	Create(ctx context.Context, userID, taskID int64, file Upload) (*domain.Attachment, error)
	// Get returns the attachment with FilePath replaced by a presigned URL.
	Get(ctx context.Context, id, userID int64) (*domain.Attachment, error)
	Delete(ctx context.Context, id, userID int64) error
}

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Profile(ctx context.Context, user *domain.User) (domain.TaskStats, error)
}

type AdminService interface {
	Users(ctx context.Context) ([]*domain.User, error)
	EditRole(ctx context.Context, actor *domain.User, userID int64, role domain.Role) (*domain.User, error)
	TaskStatsByUser(ctx context.Context) ([]domain.UserTaskStats, error)
	// AuthEvents returns the latest audit entries of a user, newest first.
	AuthEvents(ctx context.Context, userID int64, limit int64) ([]domain.AuthEvent, error)
}
