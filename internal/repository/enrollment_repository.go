package repository

import (
	"context"

	"gorm.io/gorm"

	"learnhub/internal/model"
)

// EnrollmentRepository defines enrollment persistence operations. The unique
// (user_id, course_id) index is the authoritative duplicate guard; existence
// checks here are a fast path for friendlier errors.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	Update(ctx context.Context, enrollment *model.Enrollment) error
	FindByID(ctx context.Context, id uint) (*model.Enrollment, error)
	ExistsByUserIDAndCourseID(ctx context.Context, userID, courseID uint) (bool, error)
	List(ctx context.Context, p Pageable) ([]model.Enrollment, int64, error)
	ListByUserID(ctx context.Context, userID uint, p Pageable) ([]model.Enrollment, int64, error)
	ListByCourseID(ctx context.Context, courseID uint, p Pageable) ([]model.Enrollment, int64, error)
	ListByInstructorID(ctx context.Context, instructorID uint, p Pageable) ([]model.Enrollment, int64, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo EnrollmentRepository) error) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository builds a GORM-backed repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) Update(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Save(enrollment).Error
}

func (r *enrollmentRepository) FindByID(ctx context.Context, id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	if err := r.db.WithContext(ctx).First(&enrollment, id).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) ExistsByUserIDAndCourseID(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepository) List(ctx context.Context, p Pageable) ([]model.Enrollment, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&model.Enrollment{}), p)
}

func (r *enrollmentRepository) ListByUserID(ctx context.Context, userID uint, p Pageable) ([]model.Enrollment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Enrollment{}).Where("user_id = ?", userID)
	return r.list(ctx, q, p)
}

func (r *enrollmentRepository) ListByCourseID(ctx context.Context, courseID uint, p Pageable) ([]model.Enrollment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Enrollment{}).Where("course_id = ?", courseID)
	return r.list(ctx, q, p)
}

func (r *enrollmentRepository) ListByInstructorID(ctx context.Context, instructorID uint, p Pageable) ([]model.Enrollment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.instructor_id = ?", instructorID)
	return r.list(ctx, q, p)
}

// WithTransaction executes a function within a database transaction.
func (r *enrollmentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo EnrollmentRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &enrollmentRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

func (r *enrollmentRepository) list(ctx context.Context, q *gorm.DB, p Pageable) ([]model.Enrollment, int64, error) {
	p = p.normalized()

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var enrollments []model.Enrollment
	if err := q.Order("enrollments.id ASC").
		Limit(p.Size).Offset(p.offset()).Find(&enrollments).Error; err != nil {
		return nil, 0, err
	}
	return enrollments, total, nil
}
