package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/api/metrics"
	"github.com/todoapp/todo-api/internal/core/domain"
)

// RequireRole admits only users whose role is exactly one of roles. It must
// run after Authenticate; without a resolved user it answers 401.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return unauthorized(c)
			}
			if _, ok := allowed[user.Role]; !ok {
				metrics.PermissionDeniedTotal.WithLabelValues(string(user.Role)).Inc()
				return c.JSON(http.StatusForbidden, errorBody{Error: domain.ErrPermissionDenied.Error()})
			}
			return next(c)
		}
	}
}
