package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/core/ports"
)

// TaskHandler serves the caller's own tasks. Every lookup is scoped to the
// authenticated user, so foreign ids answer 404.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create adds a task for the caller.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {object}  domain.Task
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.Create(c.Request().Context(), toCreateTaskInput(req, user.ID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

// List returns all of the caller's tasks.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Task
// @Failure      401  {object}  errorResponse
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	tasks, err := h.service.List(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// Filter narrows the caller's tasks by status, priority and due date.
// due_date accepts RFC 3339 or YYYY-MM-DD and matches tasks due at or before it.
//
// @Summary      Filter tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "todo, doing or done"
// @Param        priority  query     int     false  "1 (highest) to 5"
// @Param        due_date  query     string  false  "upper bound for the due date"
// @Success      200  {array}   domain.Task
// @Failure      400  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/tasks/filter [get]
func (h *TaskHandler) Filter(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var q filterTasksQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}
	filter, ok := toTaskFilter(q, user.ID)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "due_date must be RFC 3339 or YYYY-MM-DD")
	}

	tasks, err := h.service.Filter(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// Get returns one of the caller's tasks.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  domain.Task
// @Failure      404  {object}  errorResponse
// @Router       /api/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	task, err := h.service.Get(c.Request().Context(), id, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Update applies a partial update to one of the caller's tasks.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Task ID"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  domain.Task
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.Update(c.Request().Context(), id, user.ID, toTaskUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Delete removes one of the caller's tasks with its sub-tasks and attachments.
//
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  int  true  "Task ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
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
