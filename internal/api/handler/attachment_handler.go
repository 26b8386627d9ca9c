package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/core/ports"
)

type AttachmentHandler struct {
	service ports.AttachmentService
}

func NewAttachmentHandler(service ports.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

// Create uploads a file and attaches it to one of the caller's tasks.
//
// @Summary      Attach a file
// @Tags         attachments
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        task_id   formData  int   true  "Task ID"
// @Param        att_file  formData  file  true  "File"
// @Success      201  {object}  domain.Attachment
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/attachments [post]
func (h *AttachmentHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var form attachmentForm
	if err := bindAndValidate(c, &form); err != nil {
		return err
	}
	file, closeFile, found, err := openUpload(c, "att_file", "attachment")
	if err != nil {
		return err
	}
	defer closeFile()
	if !found {
		return echo.NewHTTPError(http.StatusBadRequest, "att_file is required")
	}

	attachment, err := h.service.Create(c.Request().Context(), user.ID, form.TaskID, file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, attachment)
}

// Get returns the attachment with a time-limited download URL in file_path.
//
// @Summary      Get an attachment
// @Tags         attachments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Attachment ID"
// @Success      200  {object}  domain.Attachment
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/attachments/{id} [get]
func (h *AttachmentHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	attachment, err := h.service.Get(c.Request().Context(), id, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attachment)
}

// Delete removes the stored object and then the attachment row.
//
// @Summary      Delete an attachment
// @Tags         attachments
// @Security     BearerAuth
// @Param        id   path  int  true  "Attachment ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/attachments/{id} [delete]
func (h *AttachmentHandler) Delete(c echo.Context) error {
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
