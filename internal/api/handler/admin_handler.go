package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// Users lists every account.
//
// @Summary      List users (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.service.Users(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// UserDetails lists every account with its timestamps.
//
// @Summary      List users with details (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userDetailsResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/users/details [get]
func (h *AdminHandler) UserDetails(c echo.Context) error {
	users, err := h.service.Users(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserDetails(users))
}

// EditRole changes the role of a user.
//
// @Summary      Edit a user's role (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "User ID"
// @Param        body  body      editRoleRequest  true  "New role"
// @Success      200   {object}  userResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/admin/{id} [put]
func (h *AdminHandler) EditRole(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req editRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.EditRole(c.Request().Context(), actor, id, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// TaskStats reports task counts per non-admin user, busiest first.
//
// @Summary      Task counts by user (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.UserTaskStats
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/filter_by_task [get]
func (h *AdminHandler) TaskStats(c echo.Context) error {
	stats, err := h.service.TaskStatsByUser(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// AuthEvents returns the latest authentication events of a user.
//
// @Summary      Authentication audit trail of a user (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int  true   "User ID"
// @Param        limit  query     int  false  "At most 100, default 50"
// @Success      200    {array}   domain.AuthEvent
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Failure      501    {object}  errorResponse
// @Router       /api/admin/users/{id}/events [get]
func (h *AdminHandler) AuthEvents(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var limit int64
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
	}

	events, err := h.service.AuthEvents(c.Request().Context(), id, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
