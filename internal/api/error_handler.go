package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// domainStatus maps sentinel errors to HTTP status codes. Their messages are
// safe to show to clients.
var domainStatus = []struct {
	err  error
	code int
}{
	{domain.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrPermissionDenied, http.StatusForbidden},
	{domain.ErrForbidden, http.StatusForbidden},

	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrTaskNotFound, http.StatusNotFound},
	{domain.ErrSubTaskNotFound, http.StatusNotFound},
	{domain.ErrCategoryNotFound, http.StatusNotFound},
	{domain.ErrAttachmentNotFound, http.StatusNotFound},

	{domain.ErrUserExists, http.StatusConflict},
	{domain.ErrCategoryExists, http.StatusConflict},
	{domain.ErrTaskNameTaken, http.StatusBadRequest},

	{domain.ErrUnsupportedFileType, http.StatusBadRequest},
	{domain.ErrFileNameTooLong, http.StatusBadRequest},
	{domain.ErrInvalidRole, http.StatusUnprocessableEntity},
	{domain.ErrInvalidStatus, http.StatusUnprocessableEntity},
	{domain.ErrInvalidPriority, http.StatusUnprocessableEntity},
	{bcrypt.ErrPasswordTooLong, http.StatusUnprocessableEntity},

	{domain.ErrRevocationDisabled, http.StatusNotImplemented},
	{domain.ErrAuditDisabled, http.StatusNotImplemented},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Int("status", he.Code).Msg("request rejected")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			return m.code, m.err.Error()
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
