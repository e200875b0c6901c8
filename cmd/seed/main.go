package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"learnhub/internal/config"
	"learnhub/internal/db"
	"learnhub/internal/model"
	"learnhub/internal/repository"
	"learnhub/internal/service"
)

const seedPassword = "changeme123"

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Course{},
		&model.Module{},
		&model.Enrollment{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)

	admin := seedUser(ctx, userRepo, model.User{
		Username:  "admin",
		Email:     "admin@learnhub.local",
		FirstName: "Site",
		LastName:  "Admin",
		Role:      model.RoleAdmin,
	})
	instructor := seedUser(ctx, userRepo, model.User{
		Username:  "ada.instructor",
		Email:     "ada@learnhub.local",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      model.RoleInstructor,
	})
	student := seedUser(ctx, userRepo, model.User{
		Username:  "sam.student",
		Email:     "sam@learnhub.local",
		FirstName: "Sam",
		LastName:  "Turner",
		Role:      model.RoleStudent,
	})

	categoryService := service.NewCategoryService(
		repository.NewCategoryRepository(gormDB),
		repository.NewCourseRepository(gormDB),
		userRepo,
	)
	category := seedCategory(ctx, gormDB, categoryService, admin.Email,
		"Programming", "Software development courses")
	seedCategory(ctx, gormDB, categoryService, admin.Email,
		"Data Science", "Statistics, machine learning and analytics")

	course := seedCourse(ctx, gormDB, model.Course{
		Title:            "Go for Backend Engineers",
		Description:      "Build production HTTP services in Go",
		ShortDescription: "Practical backend Go",
		Duration:         40,
		Price:            decimal.NewFromInt(49),
		Level:            model.CourseLevelIntermediate,
		Status:           model.CourseStatusPublished,
		InstructorID:     instructor.ID,
		CategoryID:       category.ID,
	})

	seedModules(ctx, gormDB, course.ID,
		"Language Fundamentals",
		"HTTP Services",
		"Persistence with GORM",
		"Testing and Deployment",
	)

	seedEnrollment(ctx, gormDB, student.ID, course.ID)

	log.Println("Seed completed")
}

func seedUser(ctx context.Context, users repository.UserRepository, u model.User) *model.User {
	if existing, err := users.FindByEmail(ctx, u.Email); err == nil {
		log.Printf("User %s already exists, skipping", u.Email)
		return existing
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	u.Password = string(hashed)
	u.Active = true

	if err := users.Create(ctx, &u); err != nil {
		log.Fatalf("Failed to create user %s: %v", u.Email, err)
	}
	log.Printf("Created %s user %s", u.Role, u.Email)
	return &u
}

func seedCategory(ctx context.Context, gormDB *gorm.DB, categories service.CategoryService, adminEmail, name, description string) *model.Category {
	var existing model.Category
	if err := gormDB.WithContext(ctx).Where("name = ?", name).First(&existing).Error; err == nil {
		log.Printf("Category %s already exists, skipping", name)
		return &existing
	}

	category, err := categories.CreateCategory(ctx, name, description, adminEmail)
	if err != nil {
		log.Fatalf("Failed to create category %s: %v", name, err)
	}
	log.Printf("Created category %s", name)
	return category
}

func seedCourse(ctx context.Context, gormDB *gorm.DB, c model.Course) *model.Course {
	var existing model.Course
	if err := gormDB.WithContext(ctx).Where("title = ?", c.Title).First(&existing).Error; err == nil {
		log.Printf("Course %q already exists, skipping", c.Title)
		return &existing
	}

	if err := gormDB.WithContext(ctx).Create(&c).Error; err != nil {
		log.Fatalf("Failed to create course %q: %v", c.Title, err)
	}
	log.Printf("Created course %q", c.Title)
	return &c
}

func seedModules(ctx context.Context, gormDB *gorm.DB, courseID uint, titles ...string) {
	var count int64
	gormDB.WithContext(ctx).Model(&model.Module{}).Where("course_id = ?", courseID).Count(&count)
	if count > 0 {
		log.Printf("Course %d already has modules, skipping", courseID)
		return
	}

	for i, title := range titles {
		module := model.Module{
			Title:      title,
			OrderIndex: i + 1,
			Active:     true,
			CourseID:   courseID,
		}
		if err := gormDB.WithContext(ctx).Create(&module).Error; err != nil {
			log.Fatalf("Failed to create module %q: %v", title, err)
		}
	}
	log.Printf("Created %d modules for course %d", len(titles), courseID)
}

func seedEnrollment(ctx context.Context, gormDB *gorm.DB, userID, courseID uint) {
	var count int64
	gormDB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).Count(&count)
	if count > 0 {
		log.Printf("User %d already enrolled in course %d, skipping", userID, courseID)
		return
	}

	enrollment := model.Enrollment{
		UserID:           userID,
		CourseID:         courseID,
		DateOfEnrollment: gormDB.NowFunc(),
		Progress:         model.ProgressNotStarted,
		IsActive:         true,
	}
	if err := gormDB.WithContext(ctx).Create(&enrollment).Error; err != nil {
		log.Fatalf("Failed to create enrollment: %v", err)
	}
	log.Printf("Enrolled user %d in course %d", userID, courseID)
}
