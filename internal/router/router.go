package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"learnhub/internal/auth"
	"learnhub/internal/config"
	"learnhub/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	courseHandler *handler.CourseHandler,
	moduleHandler *handler.ModuleHandler,
	enrollmentHandler *handler.EnrollmentHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/me", func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		claims, ok := token.Claims.(*auth.Claims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": claims.UserID,
			"email":   claims.Email,
			"role":    claims.Role,
		})
	})

	// User routes
	secured.GET("/users", userHandler.ListUsers)
	secured.GET("/users/by-email", userHandler.GetUserByEmail)
	secured.GET("/users/:id", userHandler.GetUser)
	secured.PUT("/users/:id", userHandler.UpdateUser)
	secured.DELETE("/users/:id", userHandler.DeleteUser)

	// Category routes
	secured.POST("/categories", categoryHandler.CreateCategory)
	secured.GET("/categories", categoryHandler.ListCategories)
	secured.GET("/categories/:id", categoryHandler.GetCategory)
	secured.PUT("/categories/:id", categoryHandler.UpdateCategory)
	secured.DELETE("/categories/:id", categoryHandler.ArchiveCategory)
	secured.GET("/categories/:id/courses/count", categoryHandler.CountCourses)

	// Course routes
	secured.POST("/courses", courseHandler.CreateCourse)
	secured.GET("/courses", courseHandler.ListCourses)
	secured.GET("/courses/by-title", courseHandler.GetCourseByTitle)
	secured.GET("/courses/:id", courseHandler.GetCourse)
	secured.PUT("/courses/:id", courseHandler.UpdateCourse)
	secured.DELETE("/courses/:id", courseHandler.ArchiveCourse)
	secured.GET("/courses/:id/modules", moduleHandler.ListCourseModules)
	secured.GET("/courses/:id/enrollments", enrollmentHandler.ListCourseEnrollments)

	// Module routes
	secured.POST("/modules", moduleHandler.CreateModule)
	secured.GET("/modules", moduleHandler.ListModules)
	secured.GET("/modules/:id", moduleHandler.GetModule)
	secured.PUT("/modules/:id", moduleHandler.UpdateModule)
	secured.DELETE("/modules/:id", moduleHandler.ArchiveModule)

	// Enrollment routes
	secured.POST("/enrollments", enrollmentHandler.CreateEnrollment)
	secured.GET("/enrollments", enrollmentHandler.ListEnrollments)
	secured.GET("/enrollments/:id", enrollmentHandler.GetEnrollment)
	secured.PUT("/enrollments/:id", enrollmentHandler.UpdateEnrollment)
	secured.DELETE("/enrollments/:id", enrollmentHandler.CancelEnrollment)
	secured.GET("/students/:id/enrollments", enrollmentHandler.ListStudentEnrollments)
	secured.GET("/instructors/:id/enrollments", enrollmentHandler.ListInstructorEnrollments)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
