package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"learnhub/internal/model"
	"learnhub/internal/service"
)

// CourseHandler handles course endpoints.
type CourseHandler struct {
	courseService service.CourseService
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// CreateCourseRequest represents a course creation request.
type CreateCourseRequest struct {
	Title            string          `json:"title" validate:"required,min=3,max=255"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"short_description" validate:"max=500"`
	Duration         int             `json:"duration" validate:"required,min=1"`
	Price            decimal.Decimal `json:"price"`
	Level            string          `json:"level" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Status           string          `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	InstructorID     uint            `json:"instructor_id" validate:"required"`
	CategoryID       uint            `json:"category_id" validate:"required"`
}

// UpdateCourseRequest represents a course update request.
type UpdateCourseRequest struct {
	Title            *string          `json:"title" validate:"omitempty,min=3,max=255"`
	Description      *string          `json:"description"`
	ShortDescription *string          `json:"short_description" validate:"omitempty,max=500"`
	Duration         *int             `json:"duration" validate:"omitempty,min=1"`
	Price            *decimal.Decimal `json:"price"`
	Level            *string          `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Status           *string          `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	InstructorID     *uint            `json:"instructor_id"`
	CategoryID       *uint            `json:"category_id"`
}

// CreateCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCourseRequest true "Course data"
// @Success 201 {object} model.Course
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c echo.Context) error {
	var req CreateCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.courseService.CreateCourse(c.Request().Context(), service.CourseCreate{
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Duration:         req.Duration,
		Price:            req.Price,
		Level:            model.CourseLevel(req.Level),
		Status:           model.CourseStatus(req.Status),
		InstructorID:     req.InstructorID,
		CategoryID:       req.CategoryID,
	}, actorEmail(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, course)
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body UpdateCourseRequest true "Fields to update"
// @Success 200 {object} model.Course
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	upd := service.CourseUpdate{
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Duration:         req.Duration,
		Price:            req.Price,
		InstructorID:     req.InstructorID,
		CategoryID:       req.CategoryID,
	}
	if req.Level != nil {
		level := model.CourseLevel(*req.Level)
		upd.Level = &level
	}
	if req.Status != nil {
		status := model.CourseStatus(*req.Status)
		upd.Status = &status
	}

	course, err := h.courseService.UpdateCourse(c.Request().Context(), id, upd, actorEmail(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, course)
}

// ArchiveCourse godoc
// @Summary Archive a course
// @Tags courses
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 204 "No Content"
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) ArchiveCourse(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.courseService.ArchiveCourse(c.Request().Context(), id, actorEmail(c)); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetCourse godoc
// @Summary Get a course by ID
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} model.Course
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	course, err := h.courseService.GetCourse(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, course)
}

// GetCourseByTitle godoc
// @Summary Get a course by title
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param title query string true "Course title"
// @Success 200 {object} model.Course
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/by-title [get]
func (h *CourseHandler) GetCourseByTitle(c echo.Context) error {
	course, err := h.courseService.GetCourseByTitle(c.Request().Context(), c.QueryParam("title"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, course)
}

// ListCourses godoc
// @Summary List courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param level query string false "Filter by level"
// @Param instructor_id query int false "Filter by instructor"
// @Param category query string false "Filter by category name"
// @Param pricing query string false "free or paid"
// @Param price query string false "Exact price"
// @Param min_price query string false "Lower price bound"
// @Param max_price query string false "Upper price bound"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} PageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c echo.Context) error {
	p := pageable(c)
	ctx := c.Request().Context()

	var (
		courses []model.Course
		total   int64
		err     error
	)
	switch {
	case c.QueryParam("status") != "":
		courses, total, err = h.courseService.ListCoursesByStatus(ctx, c.QueryParam("status"), p)
	case c.QueryParam("level") != "":
		courses, total, err = h.courseService.ListCoursesByLevel(ctx, c.QueryParam("level"), p)
	case c.QueryParam("instructor_id") != "":
		instructorID, parseErr := strconv.ParseUint(c.QueryParam("instructor_id"), 10, 32)
		if parseErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid instructor_id")
		}
		courses, total, err = h.courseService.ListCoursesByInstructorID(ctx, uint(instructorID), p)
	case c.QueryParam("category") != "":
		courses, total, err = h.courseService.ListCoursesByCategoryName(ctx, c.QueryParam("category"), p)
	case c.QueryParam("pricing") == "free":
		courses, total, err = h.courseService.ListFreeCourses(ctx, p)
	case c.QueryParam("pricing") == "paid":
		courses, total, err = h.courseService.ListPaidCourses(ctx, p)
	case c.QueryParam("price") != "":
		price, parseErr := decimal.NewFromString(c.QueryParam("price"))
		if parseErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
		}
		courses, total, err = h.courseService.ListCoursesByPrice(ctx, price, p)
	case c.QueryParam("min_price") != "" || c.QueryParam("max_price") != "":
		min, parseErr := decimal.NewFromString(c.QueryParam("min_price"))
		if parseErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_price")
		}
		max, parseErr := decimal.NewFromString(c.QueryParam("max_price"))
		if parseErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_price")
		}
		courses, total, err = h.courseService.ListCoursesByPriceRange(ctx, min, max, p)
	default:
		courses, total, err = h.courseService.ListCourses(ctx, p)
	}
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, newPageResponse(courses, total, p))
}
