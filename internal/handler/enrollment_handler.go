package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"learnhub/internal/model"
	"learnhub/internal/service"
)

// EnrollmentHandler handles enrollment endpoints.
type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler.
func NewEnrollmentHandler(enrollmentService service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// CreateEnrollmentRequest represents an enrollment creation request.
type CreateEnrollmentRequest struct {
	UserID   uint `json:"user_id" validate:"required"`
	CourseID uint `json:"course_id" validate:"required"`
}

// UpdateEnrollmentRequest represents an enrollment update request.
type UpdateEnrollmentRequest struct {
	Progress       *string          `json:"progress" validate:"omitempty,oneof=NOT_STARTED IN_PROGRESS COMPLETED CANCELLED"`
	IsActive       *bool            `json:"is_active"`
	CompletionDate *time.Time       `json:"completion_date"`
	FinalGrade     *decimal.Decimal `json:"final_grade"`
}

// CreateEnrollment godoc
// @Summary Enroll a student in a course
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEnrollmentRequest true "Enrollment data"
// @Success 201 {object} model.Enrollment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /enrollments [post]
func (h *EnrollmentHandler) CreateEnrollment(c echo.Context) error {
	var req CreateEnrollmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	enrollment, err := h.enrollmentService.CreateEnrollment(c.Request().Context(), req.UserID, req.CourseID, actorEmail(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, enrollment)
}

// UpdateEnrollment godoc
// @Summary Update an enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param request body UpdateEnrollmentRequest true "Fields to update"
// @Success 200 {object} model.Enrollment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /enrollments/{id} [put]
func (h *EnrollmentHandler) UpdateEnrollment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateEnrollmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	upd := service.EnrollmentUpdate{
		IsActive:       req.IsActive,
		CompletionDate: req.CompletionDate,
		FinalGrade:     req.FinalGrade,
	}
	if req.Progress != nil {
		progress := model.Progress(*req.Progress)
		upd.Progress = &progress
	}

	enrollment, err := h.enrollmentService.UpdateEnrollment(c.Request().Context(), id, upd, actorEmail(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, enrollment)
}

// CancelEnrollment godoc
// @Summary Cancel an enrollment
// @Tags enrollments
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 204 "No Content"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) CancelEnrollment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.enrollmentService.CancelEnrollment(c.Request().Context(), id, actorEmail(c)); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetEnrollment godoc
// @Summary Get an enrollment by ID
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} model.Enrollment
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) GetEnrollment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	enrollment, err := h.enrollmentService.GetEnrollment(c.Request().Context(), id, actorEmail(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, enrollment)
}

// ListEnrollments godoc
// @Summary List all enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} PageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /enrollments [get]
func (h *EnrollmentHandler) ListEnrollments(c echo.Context) error {
	p := pageable(c)
	enrollments, total, err := h.enrollmentService.ListEnrollments(c.Request().Context(), p, actorEmail(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, newPageResponse(enrollments, total, p))
}

// ListStudentEnrollments godoc
// @Summary List enrollments of a student
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} PageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /students/{id}/enrollments [get]
func (h *EnrollmentHandler) ListStudentEnrollments(c echo.Context) error {
	studentID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	p := pageable(c)
	enrollments, total, err := h.enrollmentService.ListEnrollmentsByStudent(c.Request().Context(), studentID, p, actorEmail(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, newPageResponse(enrollments, total, p))
}

// ListInstructorEnrollments godoc
// @Summary List enrollments across an instructor's courses
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} PageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /instructors/{id}/enrollments [get]
func (h *EnrollmentHandler) ListInstructorEnrollments(c echo.Context) error {
	instructorID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	p := pageable(c)
	enrollments, total, err := h.enrollmentService.ListEnrollmentsByInstructor(c.Request().Context(), instructorID, p, actorEmail(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, newPageResponse(enrollments, total, p))
}

// ListCourseEnrollments godoc
// @Summary List enrollments in a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} PageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id}/enrollments [get]
func (h *EnrollmentHandler) ListCourseEnrollments(c echo.Context) error {
	courseID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	p := pageable(c)
	enrollments, total, err := h.enrollmentService.ListEnrollmentsByCourse(c.Request().Context(), courseID, p, actorEmail(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, newPageResponse(enrollments, total, p))
}
