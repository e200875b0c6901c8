package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"learnhub/internal/auth"
	"learnhub/internal/errors"
	"learnhub/internal/repository"
)

// PageResponse wraps a paginated listing.
type PageResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

func newPageResponse(items interface{}, total int64, p repository.Pageable) PageResponse {
	return PageResponse{Items: items, Total: total, Page: p.Page, Size: p.Size}
}

// pageable reads page, size, sort and dir query parameters. Page is
// zero-based; out-of-range values are clamped at the repository layer.
func pageable(c echo.Context) repository.Pageable {
	p := repository.Pageable{Page: 0, Size: 20}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("size")); err == nil {
		p.Size = v
	}
	p.Sort = c.QueryParam("sort")
	p.Desc = strings.EqualFold(c.QueryParam("dir"), "desc")
	return p
}

// actorEmail extracts the authenticated principal's email from JWT claims.
// An empty result is rejected by the service layer.
func actorEmail(c echo.Context) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return ""
	}
	switch claims := token.Claims.(type) {
	case *auth.Claims:
		return claims.Email
	case jwt.MapClaims:
		if email, ok := claims["email"].(string); ok {
			return email
		}
	}
	return ""
}

// domainError converts a service error into an echo HTTP error.
func domainError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// parseID parses a positive integer path parameter.
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + name,
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}
