package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/core/ports"
)

type SubTaskHandler struct {
	service ports.SubTaskService
}

func NewSubTaskHandler(service ports.SubTaskService) *SubTaskHandler {
	return &SubTaskHandler{service: service}
}

// Create adds a sub-task under one of the caller's tasks.
//
// @Summary      Create a sub-task
// @Tags         subtasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSubTaskRequest  true  "Sub-task"
// @Success      201   {object}  domain.SubTask
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/subtask [post]
func (h *SubTaskHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createSubTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sub, err := h.service.Create(c.Request().Context(), user.ID, req.TaskID, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sub)
}

// Get returns a sub-task of the caller.
//
// @Summary      Get a sub-task
// @Tags         subtasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Sub-task ID"
// @Success      200  {object}  domain.SubTask
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/subtask/{id} [get]
func (h *SubTaskHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	sub, err := h.service.Get(c.Request().Context(), id, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sub)
}

// Update renames or re-describes a sub-task.
//
// @Summary      Update a sub-task
// @Tags         subtasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Sub-task ID"
// @Param        body  body      updateSubTaskRequest  true  "Fields to change"
// @Success      200   {object}  domain.SubTask
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/subtask/{id} [put]
func (h *SubTaskHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateSubTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sub, err := h.service.Update(c.Request().Context(), id, user.ID, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sub)
}

// Delete removes a sub-task.
//
// @Summary      Delete a sub-task
// @Tags         subtasks
// @Security     BearerAuth
// @Param        id   path  int  true  "Sub-task ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/subtask/{id} [delete]
func (h *SubTaskHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id, user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
