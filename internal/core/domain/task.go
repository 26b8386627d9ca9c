package domain

import (
	"errors"
	"time"
)

// TaskStatus is the progress state of a task.
type TaskStatus string

const (
	StatusTodo  TaskStatus = "todo"
	StatusDoing TaskStatus = "doing"
	StatusDone  TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

// Priority ranges from 1 (highest) to 5 (lowest, default).
type Priority int

const (
	PriorityHighest Priority = 1
	PriorityLowest  Priority = 5
	DefaultPriority          = PriorityLowest
)

func (p Priority) Valid() bool {
	return p >= PriorityHighest && p <= PriorityLowest
}

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskNameTaken   = errors.New("task with this name already exists")
	ErrSubTaskNotFound = errors.New("sub task not found")
	ErrForbidden       = errors.New("not allowed")
	ErrInvalidStatus   = errors.New("status must be one of todo, doing, done")
	ErrInvalidPriority = errors.New("priority must be between 1 and 5")
)

type Task struct {
	ID          int64      `json:"task_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	CategoryID  int64      `json:"category_id"`
	UserID      int64      `json:"user_id"`
	DueDate     time.Time  `json:"due_date"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"create_at"`
	UpdatedAt   time.Time  `json:"update_at"`
}

// TaskFilter narrows a user's task list. Nil fields are ignored; DueBefore
// matches tasks due at or before the given instant.
type TaskFilter struct {
	UserID    int64
	Status    *TaskStatus
	Priority  *Priority
	DueBefore *time.Time
}

// TaskUpdate carries a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Name        *string
	Description *string
	DueDate     *time.Time
	Status      *TaskStatus
	Priority    *Priority
	CategoryID  *int64
}

type SubTask struct {
	ID          int64     `json:"sub_task_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	TaskID      int64     `json:"task_id"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
