package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/api/metrics"
	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

const (
	userKey  = "auth.user"
	tokenKey = "auth.token"
)

type errorBody struct {
	Error string `json:"error"`
}

// Authenticate resolves the bearer token into a user and stores it on the
// context. A missing header, a token that does not verify, a revoked token
// and a token whose user no longer exists all get the same 401 response.
// Store failures propagate to the error handler as 500s.
func Authenticate(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c)
			}

			user, err := resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidToken) {
					return unauthorized(c)
				}
				return err
			}

			metrics.TokenChecksTotal.WithLabelValues("valid").Inc()
			c.Set(userKey, user)
			c.Set(tokenKey, token)
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by Authenticate.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(userKey).(*domain.User)
	return u, ok && u != nil
}

// CurrentToken returns the raw bearer token of the request.
func CurrentToken(c echo.Context) string {
	t, _ := c.Get(tokenKey).(string)
	return t
}

// SetUser stores user as the authenticated identity. Tests use it to skip the gate.
func SetUser(c echo.Context, user *domain.User) {
	c.Set(userKey, user)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c echo.Context) error {
	metrics.TokenChecksTotal.WithLabelValues("invalid").Inc()
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, errorBody{Error: domain.ErrInvalidToken.Error()})
}
