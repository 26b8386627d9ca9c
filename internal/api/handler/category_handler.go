package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/core/ports"
)

type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Create stores a category from a multipart form. The icon part is optional.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name   formData  string  true   "Category name"
// @Param        color  formData  string  false  "Hex color, e.g. #ede7d5"
// @Param        icon   formData  file    false  "jpeg, png, webp, gif or svg"
// @Success      201    {object}  domain.Category
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      409    {object}  errorResponse
// @Failure      422    {object}  errorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var form categoryForm
	if err := bindAndValidate(c, &form); err != nil {
		return err
	}
	icon, closeIcon, _, err := openUpload(c, "icon", "icon")
	if err != nil {
		return err
	}
	defer closeIcon()

	category, err := h.service.Create(c.Request().Context(), form.Name, form.Color, icon)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

// List returns all categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Category
// @Failure      401  {object}  errorResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// Get returns a single category.
//
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  domain.Category
// @Failure      404  {object}  errorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

// Update changes the name or color of a category.
//
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Category ID"
// @Param        body  body      updateCategoryRequest  true  "Fields to change"
// @Success      200   {object}  domain.Category
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.service.Update(c.Request().Context(), id, req.Name, req.Color)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

// Delete removes a category, its tasks and its stored icon.
//
// @Summary      Delete a category
// @Tags         categories
// @Security     BearerAuth
// @Param        id   path  int  true  "Category ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
