package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"learnhub/internal/cache"
	"learnhub/internal/errors"
	"learnhub/internal/model"
	"learnhub/internal/repository"
)

const courseCacheTTL = 5 * time.Minute

// CourseService exposes course management operations.
type CourseService interface {
	CreateCourse(ctx context.Context, input CourseCreate, actorEmail string) (*model.Course, error)
	UpdateCourse(ctx context.Context, id uint, upd CourseUpdate, actorEmail string) (*model.Course, error)
	ArchiveCourse(ctx context.Context, id uint, actorEmail string) error
	GetCourse(ctx context.Context, id uint) (*model.Course, error)
	GetCourseByTitle(ctx context.Context, title string) (*model.Course, error)
	ListCourses(ctx context.Context, p repository.Pageable) ([]model.Course, int64, error)
	ListCoursesByStatus(ctx context.Context, status string, p repository.Pageable) ([]model.Course, int64, error)
	ListCoursesByLevel(ctx context.Context, level string, p repository.Pageable) ([]model.Course, int64, error)
	ListCoursesByInstructorID(ctx context.Context, instructorID uint, p repository.Pageable) ([]model.Course, int64, error)
	ListCoursesByCategoryName(ctx context.Context, name string, p repository.Pageable) ([]model.Course, int64, error)
	ListFreeCourses(ctx context.Context, p repository.Pageable) ([]model.Course, int64, error)
	ListPaidCourses(ctx context.Context, p repository.Pageable) ([]model.Course, int64, error)
	ListCoursesByPrice(ctx context.Context, price decimal.Decimal, p repository.Pageable) ([]model.Course, int64, error)
	ListCoursesByPriceRange(ctx context.Context, min, max decimal.Decimal, p repository.Pageable) ([]model.Course, int64, error)
}

// CourseCreate carries the fields of a course creation request.
type CourseCreate struct {
	Title            string
	Description      string
	ShortDescription string
	Duration         int
	Price            decimal.Decimal
	Level            model.CourseLevel
	Status           model.CourseStatus
	InstructorID     uint
	CategoryID       uint
}

// CourseUpdate carries the optional field changes of a course update.
// Changing the instructor requires an admin actor; status may never be set to
// ARCHIVED here (the archive operation is separate).
type CourseUpdate struct {
	Title            *string
	Description      *string
	ShortDescription *string
	Duration         *int
	Price            *decimal.Decimal
	Level            *model.CourseLevel
	Status           *model.CourseStatus
	InstructorID     *uint
	CategoryID       *uint
}

type courseService struct {
	courseRepo   repository.CourseRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	moduleRepo   repository.ModuleRepository
	cache        *cache.Client
}

// NewCourseService builds a CourseService.
func NewCourseService(
	courseRepo repository.CourseRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	moduleRepo repository.ModuleRepository,
	cache *cache.Client,
) CourseService {
	return &courseService{
		courseRepo:   courseRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		moduleRepo:   moduleRepo,
		cache:        cache,
	}
}

func (s *courseService) cacheKey(id uint) string {
	return fmt.Sprintf("course:%d", id)
}

func (s *courseService) CreateCourse(ctx context.Context, input CourseCreate, actorEmail string) (*model.Course, error) {
	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return nil, err
	}

	facts := OwnershipFacts{IsSelf: actor.ID == input.InstructorID}
	if err := authorize(ActionCreateCourse, actor, input.InstructorID, facts); err != nil {
		return nil, err
	}

	if _, err := s.validInstructor(ctx, input.InstructorID); err != nil {
		return nil, err
	}
	category, err := s.validActiveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	title, err := s.validNewTitle(ctx, input.Title)
	if err != nil {
		return nil, err
	}
	price, err := validPrice(input.Price)
	if err != nil {
		return nil, err
	}
	if !input.Level.Valid() {
		return nil, errors.Validation(fmt.Sprintf("invalid course level %q", input.Level))
	}

	status := input.Status
	if status == "" {
		status = model.CourseStatusDraft
	}
	if status == model.CourseStatusArchived {
		return nil, errors.InvalidOperation(errors.CodeInvalidOperation,
			"a course cannot be created in ARCHIVED status")
	}
	if !status.Valid() {
		return nil, errors.Validation(fmt.Sprintf("invalid course status %q", status))
	}
	if status == model.CourseStatusPublished && !category.Active {
		return nil, errors.InvalidTransition("cannot publish a course into an inactive category")
	}

	course := &model.Course{
		Title:            title,
		Description:      normalizeText(input.Description),
		ShortDescription: normalizeText(input.ShortDescription),
		Duration:         input.Duration,
		Price:            price,
		Level:            input.Level,
		Status:           status,
		InstructorID:     input.InstructorID,
		CategoryID:       input.CategoryID,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	log.Infof("course %d (%s) created by %s", course.ID, course.Title, actor.Email)
	return course, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, id uint, upd CourseUpdate, actorEmail string) (*model.Course, error) {
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return nil, err
	}
	facts := OwnershipFacts{OwnsResource: instructorOwnsCourse(actor, course)}
	if err := authorize(ActionUpdateCourse, actor, id, facts); err != nil {
		return nil, err
	}

	if upd.InstructorID != nil && *upd.InstructorID != course.InstructorID {
		if err := authorize(ActionReassignInstructor, actor, id, OwnershipFacts{}); err != nil {
			return nil, err
		}
		if _, err := s.validInstructor(ctx, *upd.InstructorID); err != nil {
			return nil, err
		}
		course.InstructorID = *upd.InstructorID
	}

	if upd.CategoryID != nil && *upd.CategoryID != course.CategoryID {
		if _, err := s.validActiveCategory(ctx, *upd.CategoryID); err != nil {
			return nil, err
		}
		course.CategoryID = *upd.CategoryID
	}

	if upd.Title != nil {
		title := normalizeText(*upd.Title)
		if title == "" {
			return nil, errors.Validation("title cannot be empty")
		}
		if exists, err := s.courseRepo.ExistsByTitleExcluding(ctx, title, course.ID); err != nil {
			return nil, err
		} else if exists {
			return nil, errors.Duplicate(errors.CodeTitleAlreadyExists,
				"a course with this title already exists")
		}
		course.Title = title
	}

	if upd.Description != nil {
		course.Description = normalizeText(*upd.Description)
	}
	if upd.ShortDescription != nil {
		course.ShortDescription = normalizeText(*upd.ShortDescription)
	}

	if upd.Duration != nil {
		if *upd.Duration < 1 {
			return nil, errors.Validation("duration must be greater than 0")
		}
		course.Duration = *upd.Duration
	}

	if upd.Price != nil {
		price, err := validPrice(*upd.Price)
		if err != nil {
			return nil, err
		}
		if !course.Price.Equal(price) {
			// auditable event
			log.Warnf("course %d price changed from %s to %s by %s",
				course.ID, course.Price, price, actor.Email)
		}
		course.Price = price
	}

	if upd.Level != nil {
		if !upd.Level.Valid() {
			return nil, errors.Validation(fmt.Sprintf("invalid course level %q", *upd.Level))
		}
		course.Level = *upd.Level
	}

	if upd.Status != nil && *upd.Status != course.Status {
		category, err := s.findCategory(ctx, course.CategoryID)
		if err != nil {
			return nil, err
		}
		if err := validateCourseStatusChange(course, *upd.Status, category); err != nil {
			return nil, err
		}
		course.Status = *upd.Status
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(course.ID))

	return course, nil
}

// ArchiveCourse is the only path to ARCHIVED. Admin only; the course must not
// be archived already and must have no active modules.
func (s *courseService) ArchiveCourse(ctx context.Context, id uint, actorEmail string) error {
	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return err
	}
	if err := authorize(ActionArchiveCourse, actor, id, OwnershipFacts{}); err != nil {
		return err
	}

	err = s.courseRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.CourseRepository) error {
		course, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NotFound(errors.CodeCourseNotFound,
					fmt.Sprintf("course with id %d not found", id))
			}
			return err
		}

		if course.Status == model.CourseStatusArchived {
			return errors.Conflict(errors.CodeAlreadyArchived, "course is already archived")
		}

		hasActive, err := s.moduleRepo.ExistsActiveByCourseID(ctx, course.ID)
		if err != nil {
			return err
		}
		if hasActive {
			return errors.Conflict(errors.CodeCourseHasModules,
				"cannot archive a course with active modules")
		}

		course.Status = model.CourseStatusArchived
		return txRepo.Update(ctx, course)
	})
	if err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	log.Infof("course %d archived by admin %s", id, actor.Email)
	return nil
}

// GetCourse retrieves a course by ID with caching.
func (s *courseService) GetCourse(ctx context.Context, id uint) (*model.Course, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Course
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	course, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(course); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, courseCacheTTL)
	}
	return course, nil
}

func (s *courseService) GetCourseByTitle(ctx context.Context, title string) (*model.Course, error) {
	title = normalizeText(title)
	if title == "" {
		return nil, errors.Validation("title cannot be empty")
	}

	course, err := s.courseRepo.FindByTitle(ctx, title)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound(errors.CodeCourseNotFound,
				"course with title "+title+" not found")
		}
		return nil, err
	}
	return course, nil
}

func (s *courseService) ListCourses(ctx context.Context, p repository.Pageable) ([]model.Course, int64, error) {
	return s.courseRepo.List(ctx, p)
}

func (s *courseService) ListCoursesByStatus(ctx context.Context, status string, p repository.Pageable) ([]model.Course, int64, error) {
	parsed := model.CourseStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !parsed.Valid() {
		return nil, 0, errors.Validation("status must be one of DRAFT, PUBLISHED, ARCHIVED")
	}
	return s.courseRepo.ListByStatus(ctx, parsed, p)
}

func (s *courseService) ListCoursesByLevel(ctx context.Context, level string, p repository.Pageable) ([]model.Course, int64, error) {
	parsed := model.CourseLevel(strings.ToUpper(strings.TrimSpace(level)))
	if !parsed.Valid() {
		return nil, 0, errors.Validation("level must be one of BEGINNER, INTERMEDIATE, ADVANCED")
	}
	return s.courseRepo.ListByLevel(ctx, parsed, p)
}

func (s *courseService) ListCoursesByInstructorID(ctx context.Context, instructorID uint, p repository.Pageable) ([]model.Course, int64, error) {
	if _, err := s.validInstructorRole(ctx, instructorID); err != nil {
		return nil, 0, err
	}
	return s.courseRepo.ListByInstructorID(ctx, instructorID, p)
}

func (s *courseService) ListCoursesByCategoryName(ctx context.Context, name string, p repository.Pageable) ([]model.Course, int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, 0, errors.Validation("category cannot be empty")
	}
	courses, total, err := s.courseRepo.ListByCategoryName(ctx, name, p)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		exists, err := s.categoryRepo.ExistsByName(ctx, name)
		if err != nil {
			return nil, 0, err
		}
		if !exists {
			return nil, 0, errors.NotFound(errors.CodeCategoryNotFound,
				"category "+name+" not found")
		}
	}
	return courses, total, nil
}

func (s *courseService) ListFreeCourses(ctx context.Context, p repository.Pageable) ([]model.Course, int64, error) {
	return s.courseRepo.ListFree(ctx, p)
}

func (s *courseService) ListPaidCourses(ctx context.Context, p repository.Pageable) ([]model.Course, int64, error) {
	return s.courseRepo.ListPaid(ctx, p)
}

func (s *courseService) ListCoursesByPrice(ctx context.Context, price decimal.Decimal, p repository.Pageable) ([]model.Course, int64, error) {
	normalized, err := validPrice(price)
	if err != nil {
		return nil, 0, err
	}
	return s.courseRepo.ListByPrice(ctx, normalized, p)
}

func (s *courseService) ListCoursesByPriceRange(ctx context.Context, min, max decimal.Decimal, p repository.Pageable) ([]model.Course, int64, error) {
	if min.IsNegative() || max.IsNegative() {
		return nil, 0, errors.Validation("prices cannot be negative")
	}
	if min.GreaterThan(max) {
		return nil, 0, errors.Validation(
			fmt.Sprintf("minimum price (%s) must not exceed maximum price (%s)", min, max))
	}
	// widen the bounds so 2-decimal rounding never excludes an endpoint
	return s.courseRepo.ListByPriceRange(ctx, min.RoundDown(2), max.RoundUp(2), p)
}

func (s *courseService) findCourse(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound(errors.CodeCourseNotFound,
				fmt.Sprintf("course with id %d not found", id))
		}
		return nil, err
	}
	return course, nil
}

func (s *courseService) findCategory(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound(errors.CodeCategoryNotFound,
				fmt.Sprintf("category with id %d not found", id))
		}
		return nil, err
	}
	return category, nil
}

// validInstructor requires an existing, active user with the INSTRUCTOR role.
func (s *courseService) validInstructor(ctx context.Context, id uint) (*model.User, error) {
	instructor, err := s.validInstructorRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if !instructor.Active {
		return nil, errors.Inactive(errors.CodeInactiveUser,
			fmt.Sprintf("instructor %d is no longer active", id))
	}
	return instructor, nil
}

func (s *courseService) validInstructorRole(ctx context.Context, id uint) (*model.User, error) {
	instructor, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound(errors.CodeInstructorNotFound,
				fmt.Sprintf("instructor with id %d not found", id))
		}
		return nil, err
	}
	if instructor.Role != model.RoleInstructor {
		return nil, errors.InvalidRole(errors.CodeUserNotInstructor,
			fmt.Sprintf("user with id %d is not an instructor", id))
	}
	return instructor, nil
}

// validActiveCategory requires an existing, active category.
func (s *courseService) validActiveCategory(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if !category.Active {
		return nil, errors.Inactive(errors.CodeInactiveCategory,
			fmt.Sprintf("category %d is no longer active", id))
	}
	return category, nil
}

func (s *courseService) validNewTitle(ctx context.Context, title string) (string, error) {
	title = normalizeText(title)
	if title == "" {
		return "", errors.Validation("title cannot be empty")
	}
	exists, err := s.courseRepo.ExistsByTitle(ctx, title)
	if err != nil {
		return "", err
	}
	if exists {
		return "", errors.Duplicate(errors.CodeTitleAlreadyExists,
			"a course with this title already exists")
	}
	return title, nil
}

// validPrice normalizes a price to two decimals, rejecting negatives.
func validPrice(price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Zero, errors.Validation("price cannot be negative")
	}
	return price.Round(2), nil
}
