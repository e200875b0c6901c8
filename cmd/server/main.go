package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "learnhub/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"learnhub/internal/auth"
	"learnhub/internal/cache"
	"learnhub/internal/config"
	"learnhub/internal/db"
	"learnhub/internal/handler"
	"learnhub/internal/model"
	"learnhub/internal/repository"
	"learnhub/internal/router"
	"learnhub/internal/service"
)

// @title LearnHub API
// @version 1.0
// @description Course catalog and enrollment API with role-based access control and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Enrollment{},
			&model.Module{},
			&model.Course{},
			&model.Category{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Course{},
		&model.Module{},
		&model.Enrollment{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Printf("Warning: redis unreachable, caching and refresh tokens degraded: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	courseRepo := repository.NewCourseRepository(gormDB)
	moduleRepo := repository.NewModuleRepository(gormDB)
	enrollmentRepo := repository.NewEnrollmentRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, courseRepo)
	categoryService := service.NewCategoryService(categoryRepo, courseRepo, userRepo)
	courseService := service.NewCourseService(courseRepo, categoryRepo, userRepo, moduleRepo, cacheClient)
	moduleService := service.NewModuleService(moduleRepo, courseRepo, userRepo)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	courseHandler := handler.NewCourseHandler(courseService)
	moduleHandler := handler.NewModuleHandler(moduleService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		userHandler,
		categoryHandler,
		courseHandler,
		moduleHandler,
		enrollmentHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: http://%s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
