package handler

import (
	"time"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// userResponse is the public view of an account.
type userResponse struct {
	ID       int64       `json:"user_id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// userDetailsResponse adds timestamps for the admin panel.
type userDetailsResponse struct {
	userResponse
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type profileResponse struct {
	User   userResponse     `json:"user"`
	Result domain.TaskStats `json:"result"`
}

type editRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=owner user admin"`
}

// --- Tasks ---

type createTaskRequest struct {
	Name        string    `json:"name"        validate:"required,max=128"`
	Description *string   `json:"description" validate:"omitempty,max=255"`
	CategoryID  int64     `json:"category_id" validate:"required,gt=0"`
	DueDate     time.Time `json:"due_date"    validate:"required"`
	Priority    int       `json:"priority"    validate:"omitempty,min=1,max=5"`
}

type updateTaskRequest struct {
	Name        *string    `json:"name"        validate:"omitempty,min=1,max=128"`
	Description *string    `json:"description" validate:"omitempty,max=255"`
	CategoryID  *int64     `json:"category_id" validate:"omitempty,gt=0"`
	DueDate     *time.Time `json:"due_date"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=todo doing done"`
	Priority    *int       `json:"priority"    validate:"omitempty,min=1,max=5"`
}

type filterTasksQuery struct {
	Status   string `query:"status"   validate:"omitempty,oneof=todo doing done"`
	Priority int    `query:"priority" validate:"omitempty,min=1,max=5"`
	DueDate  string `query:"due_date"`
}

// --- Sub-tasks ---

type createSubTaskRequest struct {
	Name        string  `json:"name"        validate:"required,max=64"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	TaskID      int64   `json:"task_id"     validate:"required,gt=0"`
}

type updateSubTaskRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=64"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

// --- Categories & attachments ---

type categoryForm struct {
	Name  string `form:"name"  validate:"required,max=64"`
	Color string `form:"color" validate:"omitempty,hexcolor"`
}

type updateCategoryRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1,max=64"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

type attachmentForm struct {
	TaskID int64 `form:"task_id" validate:"required,gt=0"`
}
