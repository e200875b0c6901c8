package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error for transport mapping and tests.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindDuplicate         Kind = "duplicate_resource"
	KindInvalidRole       Kind = "invalid_role"
	KindInactive          Kind = "inactive"
	KindInvalidTransition Kind = "invalid_transition"
	KindInvalidOperation  Kind = "invalid_operation"
	KindAccessDenied      Kind = "access_denied"
	KindValidation        Kind = "validation"
	KindConflict          Kind = "conflict"
)

// Stable machine-readable codes surfaced to clients.
const (
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInstructorNotFound = "INSTRUCTOR_NOT_FOUND"
	CodeCategoryNotFound   = "CATEGORY_NOT_FOUND"
	CodeCourseNotFound     = "COURSE_NOT_FOUND"
	CodeModuleNotFound     = "MODULE_NOT_FOUND"
	CodeEnrollmentNotFound = "ENROLLMENT_NOT_FOUND"

	CodeEmailAlreadyExists    = "EMAIL_ALREADY_EXISTS"
	CodeUsernameAlreadyExists = "USERNAME_ALREADY_EXISTS"
	CodeTitleAlreadyExists    = "TITLE_ALREADY_EXISTS"
	CodeCategoryAlreadyExists = "CATEGORY_ALREADY_EXISTS"
	CodeSlugAlreadyExists     = "SLUG_ALREADY_EXISTS"
	CodeModuleAlreadyExists   = "MODULE_ALREADY_EXISTS"
	CodeAlreadyEnrolled       = "USER_ALREADY_ENROLLED_IN_COURSE"

	CodeUserNotInstructor = "USER_IS_NOT_AN_INSTRUCTOR"
	CodeUserNotStudent    = "USER_IS_NOT_A_STUDENT"

	CodeInactiveUser     = "INACTIVE_USER"
	CodeInactiveCourse   = "INACTIVE_COURSE"
	CodeInactiveCategory = "INACTIVE_CATEGORY"

	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeInvalidOperation   = "INVALID_OPERATION"
	CodeAccessDenied       = "ACCESS_DENIED"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeCourseHasModules   = "COURSE_HAS_ACTIVE_MODULES"
	CodeCategoryHasCourses = "CATEGORY_HAS_ACTIVE_COURSES"
	CodeAlreadyArchived    = "ALREADY_ARCHIVED"
	CodeAlreadyCancelled   = "ALREADY_CANCELLED"
	CodeOrderingConflict   = "ORDERING_CONFLICT"
)

// DomainError carries the error kind, a stable code, and a human message.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NotFound builds a KindNotFound error.
func NotFound(code, message string) error {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

// Duplicate builds a KindDuplicate error.
func Duplicate(code, message string) error {
	return &DomainError{Kind: KindDuplicate, Code: code, Message: message}
}

// InvalidRole builds a KindInvalidRole error.
func InvalidRole(code, message string) error {
	return &DomainError{Kind: KindInvalidRole, Code: code, Message: message}
}

// Inactive builds a KindInactive error.
func Inactive(code, message string) error {
	return &DomainError{Kind: KindInactive, Code: code, Message: message}
}

// InvalidTransition builds a KindInvalidTransition error.
func InvalidTransition(message string) error {
	return &DomainError{Kind: KindInvalidTransition, Code: CodeInvalidTransition, Message: message}
}

// InvalidOperation builds a KindInvalidOperation error.
func InvalidOperation(code, message string) error {
	return &DomainError{Kind: KindInvalidOperation, Code: code, Message: message}
}

// AccessDenied builds a KindAccessDenied error.
func AccessDenied(message string) error {
	return &DomainError{Kind: KindAccessDenied, Code: CodeAccessDenied, Message: message}
}

// Validation builds a KindValidation error.
func Validation(message string) error {
	return &DomainError{Kind: KindValidation, Code: CodeInvalidInput, Message: message}
}

// Conflict builds a KindConflict error.
func Conflict(code, message string) error {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

// KindOf returns the kind of err, or "" for non-domain errors.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// CodeOf returns the stable code of err, or "" for non-domain errors.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var de *DomainError
	if !errors.As(err, &de) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}

	switch de.Kind {
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, de.Message, de.Code)
	case KindDuplicate, KindConflict:
		return NewHTTPError(http.StatusConflict, de.Message, de.Code)
	case KindAccessDenied:
		return NewHTTPError(http.StatusForbidden, de.Message, de.Code)
	case KindValidation, KindInvalidRole, KindInactive, KindInvalidTransition, KindInvalidOperation:
		return NewHTTPError(http.StatusBadRequest, de.Message, de.Code)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
