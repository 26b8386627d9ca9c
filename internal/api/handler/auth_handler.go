package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/api/metrics"
	"github.com/todoapp/todo-api/internal/api/middleware"
	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account with the "user" role.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Account credentials"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		recordAttempt("register", err)
		return err
	}
	recordAttempt("register", nil)

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login exchanges credentials for a session token. Credentials are read from
// the Basic authorization header, or from a JSON body when the header is absent.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  false  "Credentials when Basic auth is not used"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if username, password, ok := c.Request().BasicAuth(); ok {
		req = loginRequest{Username: username, Password: password}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
	} else if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, c.RealIP())
	if err != nil {
		recordAttempt("login", err)
		return err
	}
	recordAttempt("login", nil)

	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Logout revokes the presented token until it would have expired.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  errorResponse
// @Failure      501   {object}  errorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), user, middleware.CurrentToken(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func recordAttempt(operation string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUserExists):
		result = "failure"
	default:
		result = "error"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}
