package domain

import (
	"errors"
	"time"
)

// Role classifies what an identity may do. Every user carries exactly one.
type Role string

const (
	RoleOwner Role = "owner"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the fixed roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleUser, RoleAdmin:
		return true
	}
	return false
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
)

// User models an account. PasswordHash is never serialized.
type User struct {
	ID           int64     `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsUser() bool  { return u.Role == RoleUser }
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// TaskStats counts a user's tasks by status.
type TaskStats struct {
	Total int64 `json:"task_count"`
	Todo  int64 `json:"task_todo"`
	Doing int64 `json:"task_doing"`
	Done  int64 `json:"task_done"`
}

// UserTaskStats is one row of the admin per-user task report.
type UserTaskStats struct {
	Username string `json:"name"`
	Total    int64  `json:"task_count"`
	Done     int64  `json:"status_done"`
	Todo     int64  `json:"status_todo"`
	Doing    int64  `json:"status_doing"`
}
