package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"learnhub/internal/model"
	"learnhub/internal/service"
)

// CategoryHandler handles category endpoints.
type CategoryHandler struct {
	categoryService service.CategoryService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents a category creation request.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description"`
}

// UpdateCategoryRequest represents a category update request.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// CourseCountResponse carries the number of courses in a category.
type CourseCountResponse struct {
	CategoryID uint  `json:"category_id"`
	Courses    int64 `json:"courses"`
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "Category data"
// @Success 201 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), req.Name, req.Description, actorEmail(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), id, service.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	}, actorEmail(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, category)
}

// ArchiveCategory godoc
// @Summary Archive a category
// @Tags categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204 "No Content"
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) ArchiveCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.categoryService.ArchiveCategory(c.Request().Context(), id, actorEmail(c)); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetCategory godoc
// @Summary Get a category by ID
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} model.Category
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	category, err := h.categoryService.GetCategory(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, category)
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Filter by active flag"
// @Param unused query bool false "Only categories with no courses"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} PageResponse
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	p := pageable(c)
	ctx := c.Request().Context()

	var (
		categories []model.Category
		total      int64
		err        error
	)
	switch {
	case c.QueryParam("unused") == "true":
		categories, total, err = h.categoryService.ListCategoriesWithNoCourses(ctx, p)
	case c.QueryParam("active") != "":
		active, parseErr := strconv.ParseBool(c.QueryParam("active"))
		if parseErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid active filter")
		}
		categories, total, err = h.categoryService.ListCategoriesByActive(ctx, active, p)
	default:
		categories, total, err = h.categoryService.ListCategories(ctx, p)
	}
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, newPageResponse(categories, total, p))
}

// CountCourses godoc
// @Summary Count courses in a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} CourseCountResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id}/courses/count [get]
func (h *CategoryHandler) CountCourses(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	count, err := h.categoryService.CountCourses(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, CourseCountResponse{CategoryID: id, Courses: count})
}
