package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"learnhub/internal/service"
)

// ModuleHandler handles module endpoints.
type ModuleHandler struct {
	moduleService service.ModuleService
}

// NewModuleHandler creates a new module handler.
func NewModuleHandler(moduleService service.ModuleService) *ModuleHandler {
	return &ModuleHandler{moduleService: moduleService}
}

// CreateModuleRequest represents a module creation request.
type CreateModuleRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description"`
	CourseID    uint   `json:"course_id" validate:"required"`
}

// UpdateModuleRequest represents a module update request.
type UpdateModuleRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index" validate:"omitempty,min=1"`
	Active      *bool   `json:"active"`
	CourseID    *uint   `json:"course_id"`
}

// CreateModule godoc
// @Summary Create a module
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateModuleRequest true "Module data"
// @Success 201 {object} model.Module
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /modules [post]
func (h *ModuleHandler) CreateModule(c echo.Context) error {
	var req CreateModuleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	module, err := h.moduleService.CreateModule(c.Request().Context(), service.ModuleCreate{
		Title:       req.Title,
		Description: req.Description,
		CourseID:    req.CourseID,
	}, actorEmail(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, module)
}

// UpdateModule godoc
// @Summary Update a module
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Param request body UpdateModuleRequest true "Fields to update"
// @Success 200 {object} model.Module
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /modules/{id} [put]
func (h *ModuleHandler) UpdateModule(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateModuleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	module, err := h.moduleService.UpdateModule(c.Request().Context(), id, service.ModuleUpdate{
		Title:       req.Title,
		Description: req.Description,
		OrderIndex:  req.OrderIndex,
		Active:      req.Active,
		CourseID:    req.CourseID,
	}, actorEmail(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, module)
}

// ArchiveModule godoc
// @Summary Archive a module
// @Tags modules
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Success 204 "No Content"
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /modules/{id} [delete]
func (h *ModuleHandler) ArchiveModule(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.moduleService.ArchiveModule(c.Request().Context(), id, actorEmail(c)); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetModule godoc
// @Summary Get a module by ID
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Success 200 {object} model.Module
// @Failure 404 {object} errors.ErrorResponse
// @Router /modules/{id} [get]
func (h *ModuleHandler) GetModule(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	module, err := h.moduleService.GetModule(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, module)
}

// ListModules godoc
// @Summary List modules
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} PageResponse
// @Router /modules [get]
func (h *ModuleHandler) ListModules(c echo.Context) error {
	p := pageable(c)
	modules, total, err := h.moduleService.ListModules(c.Request().Context(), p)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, newPageResponse(modules, total, p))
}

// ListCourseModules godoc
// @Summary List modules of a course
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} PageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id}/modules [get]
func (h *ModuleHandler) ListCourseModules(c echo.Context) error {
	courseID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	p := pageable(c)
	modules, total, err := h.moduleService.ListModulesByCourse(c.Request().Context(), courseID, p)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, newPageResponse(modules, total, p))
}
