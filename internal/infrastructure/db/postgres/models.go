package postgres

import (
	"time"

	"github.com/todoapp/todo-api/internal/core/domain"
)

type userModel struct {
	ID        int64  `gorm:"primaryKey"`
	Username  string `gorm:"size:64;uniqueIndex"`
	Password  string `gorm:"size:128"`
	Role      string `gorm:"size:16;default:user"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.Password,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type categoryModel struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:64;uniqueIndex"`
	Icon      string `gorm:"size:255"`
	Color     string `gorm:"size:20"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (categoryModel) TableName() string { return "categories" }

func (m *categoryModel) toDomain() *domain.Category {
	return &domain.Category{
		ID:        m.ID,
		Name:      m.Name,
		Icon:      m.Icon,
		Color:     m.Color,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func categoryFromDomain(c *domain.Category) *categoryModel {
	icon, color := c.Icon, c.Color
	if icon == "" {
		icon = domain.DefaultCategoryIcon
	}
	if color == "" {
		color = domain.DefaultCategoryColor
	}
	return &categoryModel{ID: c.ID, Name: c.Name, Icon: icon, Color: color, CreatedAt: c.CreatedAt}
}

type taskModel struct {
	ID          int64   `gorm:"primaryKey"`
	Name        string  `gorm:"size:128"`
	Description *string `gorm:"size:255"`
	CategoryID  int64
	UserID      int64
	DueDate     time.Time
	Status      string `gorm:"size:8"`
	Priority    int16
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (taskModel) TableName() string { return "tasks" }

func (m *taskModel) toDomain() *domain.Task {
	return &domain.Task{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CategoryID:  m.CategoryID,
		UserID:      m.UserID,
		DueDate:     m.DueDate,
		Status:      domain.TaskStatus(m.Status),
		Priority:    domain.Priority(m.Priority),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func taskFromDomain(t *domain.Task) *taskModel {
	status := t.Status
	if status == "" {
		status = domain.StatusTodo
	}
	priority := t.Priority
	if priority == 0 {
		priority = domain.DefaultPriority
	}
	return &taskModel{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CategoryID:  t.CategoryID,
		UserID:      t.UserID,
		DueDate:     t.DueDate,
		Status:      string(status),
		Priority:    int16(priority),
		CreatedAt:   t.CreatedAt,
	}
}

type subTaskModel struct {
	ID          int64   `gorm:"primaryKey"`
	Name        string  `gorm:"size:64"`
	Description *string `gorm:"size:255"`
	TaskID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (subTaskModel) TableName() string { return "sub_tasks" }

// subTaskRow is a sub-task joined with the owner of its parent task.
type subTaskRow struct {
	subTaskModel `gorm:"embedded"`
	UserID       int64
}

func (r *subTaskRow) toDomain() *domain.SubTask {
	return &domain.SubTask{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		TaskID:      r.TaskID,
		UserID:      r.UserID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type attachmentModel struct {
	ID        int64  `gorm:"primaryKey"`
	FilePath  string `gorm:"size:255"`
	TaskID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (attachmentModel) TableName() string { return "attachments" }

func (m *attachmentModel) toDomain() *domain.Attachment {
	return &domain.Attachment{
		ID:        m.ID,
		FilePath:  m.FilePath,
		TaskID:    m.TaskID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
