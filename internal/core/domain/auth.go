package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidToken is the single outward signal for every authentication
	// failure: bad, expired, revoked or orphaned tokens all collapse into it.
	ErrInvalidToken = errors.New("invalid token")
	// ErrPermissionDenied means the identity is valid but its role is not allowed.
	ErrPermissionDenied = errors.New("permission denied")

	ErrRevocationDisabled = errors.New("token revocation is not enabled")
	ErrAuditDisabled      = errors.New("audit trail is not enabled")
)

// AuthEventType names an entry in the authentication audit trail.
type AuthEventType string

const (
	AuthEventRegistered   AuthEventType = "registered"
	AuthEventLoginSuccess AuthEventType = "login_success"
	AuthEventLoginFailure AuthEventType = "login_failure"
	AuthEventLogout       AuthEventType = "logout"
	AuthEventRoleChanged  AuthEventType = "role_changed"
)

// AuthEvent is an audit record. UserID is zero when the username did not resolve.
type AuthEvent struct {
	Type       AuthEventType `json:"type"`
	UserID     int64         `json:"user_id,omitempty"`
	Username   string        `json:"username,omitempty"`
	ActorID    int64         `json:"actor_id,omitempty"`
	Detail     string        `json:"detail,omitempty"`
	RemoteAddr string        `json:"remote_addr,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
