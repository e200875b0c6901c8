package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"learnhub/internal/model"
)

// CourseRepository defines course persistence operations.
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id uint) (*model.Course, error)
	FindByTitle(ctx context.Context, title string) (*model.Course, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	ExistsByTitleExcluding(ctx context.Context, title string, id uint) (bool, error)
	List(ctx context.Context, p Pageable) ([]model.Course, int64, error)
	ListByStatus(ctx context.Context, status model.CourseStatus, p Pageable) ([]model.Course, int64, error)
	ListByLevel(ctx context.Context, level model.CourseLevel, p Pageable) ([]model.Course, int64, error)
	ListByInstructorID(ctx context.Context, instructorID uint, p Pageable) ([]model.Course, int64, error)
	ListByCategoryName(ctx context.Context, name string, p Pageable) ([]model.Course, int64, error)
	ListFree(ctx context.Context, p Pageable) ([]model.Course, int64, error)
	ListPaid(ctx context.Context, p Pageable) ([]model.Course, int64, error)
	ListByPrice(ctx context.Context, price decimal.Decimal, p Pageable) ([]model.Course, int64, error)
	ListByPriceRange(ctx context.Context, min, max decimal.Decimal, p Pageable) ([]model.Course, int64, error)
	CountByCategoryID(ctx context.Context, categoryID uint) (int64, error)
	HasNonArchivedByCategoryID(ctx context.Context, categoryID uint) (bool, error)
	HasNonArchivedByInstructorID(ctx context.Context, instructorID uint) (bool, error)
	ExistsEnrolledStudentOfInstructor(ctx context.Context, instructorID, studentID uint) (bool, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CourseRepository) error) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository builds a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindByTitle(ctx context.Context, title string) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Where("LOWER(title) = LOWER(?)", title).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("LOWER(title) = LOWER(?)", title).Count(&count).Error
	return count > 0, err
}

func (r *courseRepository) ExistsByTitleExcluding(ctx context.Context, title string, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("LOWER(title) = LOWER(?) AND id <> ?", title, id).Count(&count).Error
	return count > 0, err
}

func (r *courseRepository) List(ctx context.Context, p Pageable) ([]model.Course, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&model.Course{}), p)
}

func (r *courseRepository) ListByStatus(ctx context.Context, status model.CourseStatus, p Pageable) ([]model.Course, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Course{}).Where("status = ?", status)
	return r.list(ctx, q, p)
}

func (r *courseRepository) ListByLevel(ctx context.Context, level model.CourseLevel, p Pageable) ([]model.Course, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Course{}).Where("level = ?", level)
	return r.list(ctx, q, p)
}

func (r *courseRepository) ListByInstructorID(ctx context.Context, instructorID uint, p Pageable) ([]model.Course, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Course{}).Where("instructor_id = ?", instructorID)
	return r.list(ctx, q, p)
}

func (r *courseRepository) ListByCategoryName(ctx context.Context, name string, p Pageable) ([]model.Course, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Course{}).
		Joins("JOIN categories ON categories.id = courses.category_id").
		Where("LOWER(categories.name) = LOWER(?)", name)
	return r.list(ctx, q, p)
}

func (r *courseRepository) ListFree(ctx context.Context, p Pageable) ([]model.Course, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Course{}).Where("price = 0")
	return r.list(ctx, q, p)
}

func (r *courseRepository) ListPaid(ctx context.Context, p Pageable) ([]model.Course, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Course{}).Where("price > 0")
	return r.list(ctx, q, p)
}

func (r *courseRepository) ListByPrice(ctx context.Context, price decimal.Decimal, p Pageable) ([]model.Course, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Course{}).Where("price = ?", price)
	return r.list(ctx, q, p)
}

func (r *courseRepository) ListByPriceRange(ctx context.Context, min, max decimal.Decimal, p Pageable) ([]model.Course, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Course{}).Where("price BETWEEN ? AND ?", min, max)
	return r.list(ctx, q, p)
}

func (r *courseRepository) CountByCategoryID(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// HasNonArchivedByCategoryID reports whether the category still has DRAFT or
// PUBLISHED courses, which blocks archiving the category.
func (r *courseRepository) HasNonArchivedByCategoryID(ctx context.Context, categoryID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("category_id = ? AND status <> ?", categoryID, model.CourseStatusArchived).
		Count(&count).Error
	return count > 0, err
}

// HasNonArchivedByInstructorID reports whether the instructor still teaches
// DRAFT or PUBLISHED courses, which blocks deleting the instructor.
func (r *courseRepository) HasNonArchivedByInstructorID(ctx context.Context, instructorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("instructor_id = ? AND status <> ?", instructorID, model.CourseStatusArchived).
		Count(&count).Error
	return count > 0, err
}

// ExistsEnrolledStudentOfInstructor reports whether the student holds an
// enrollment in any course taught by the instructor.
func (r *courseRepository) ExistsEnrolledStudentOfInstructor(ctx context.Context, instructorID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.instructor_id = ? AND enrollments.user_id = ?", instructorID, studentID).
		Count(&count).Error
	return count > 0, err
}

// WithTransaction executes a function within a database transaction.
func (r *courseRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CourseRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &courseRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

func (r *courseRepository) list(ctx context.Context, q *gorm.DB, p Pageable) ([]model.Course, int64, error) {
	p = p.normalized("id", "title", "price", "created_at")
	if p.Sort != "" {
		// qualify the column: some list queries join categories
		p.Sort = "courses." + p.Sort
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	if err := q.Order(p.order("courses.id")).Limit(p.Size).Offset(p.offset()).Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}
