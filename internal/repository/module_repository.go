package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnhub/internal/model"
)

// ModuleRepository defines module persistence operations. Reordering flows
// lock the active rows of a course (ListActiveByCourseIDForUpdate) and save
// the whole batch inside one transaction.
type ModuleRepository interface {
	Create(ctx context.Context, module *model.Module) error
	Update(ctx context.Context, module *model.Module) error
	SaveAll(ctx context.Context, modules []model.Module) error
	FindByID(ctx context.Context, id uint) (*model.Module, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Module, error)
	List(ctx context.Context, p Pageable) ([]model.Module, int64, error)
	ListByCourseID(ctx context.Context, courseID uint, p Pageable) ([]model.Module, int64, error)
	ListActiveByCourseIDOrdered(ctx context.Context, courseID uint) ([]model.Module, error)
	ListActiveByCourseIDForUpdate(ctx context.Context, courseID uint) ([]model.Module, error)
	MaxOrderIndexByCourseID(ctx context.Context, courseID uint) (int, error)
	ExistsByTitleAndCourseID(ctx context.Context, title string, courseID uint) (bool, error)
	ExistsByTitleAndCourseIDExcluding(ctx context.Context, title string, courseID, id uint) (bool, error)
	ExistsActiveByCourseID(ctx context.Context, courseID uint) (bool, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ModuleRepository) error) error
}

type moduleRepository struct {
	db *gorm.DB
}

// NewModuleRepository builds a GORM-backed repository.
func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(ctx context.Context, module *model.Module) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *moduleRepository) Update(ctx context.Context, module *model.Module) error {
	return r.db.WithContext(ctx).Save(module).Error
}

// SaveAll persists a batch of modules, typically a freshly reindexed course.
func (r *moduleRepository) SaveAll(ctx context.Context, modules []model.Module) error {
	if len(modules) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&modules).Error
}

func (r *moduleRepository) FindByID(ctx context.Context, id uint) (*model.Module, error) {
	var module model.Module
	if err := r.db.WithContext(ctx).First(&module, id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

// FindByIDForUpdate loads a module with a row-level lock.
func (r *moduleRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Module, error) {
	var module model.Module
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&module, id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepository) List(ctx context.Context, p Pageable) ([]model.Module, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Module{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p = p.normalized()
	var modules []model.Module
	if err := q.Order("course_id ASC, order_index ASC").
		Limit(p.Size).Offset(p.offset()).Find(&modules).Error; err != nil {
		return nil, 0, err
	}
	return modules, total, nil
}

func (r *moduleRepository) ListByCourseID(ctx context.Context, courseID uint, p Pageable) ([]model.Module, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Module{}).Where("course_id = ?", courseID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p = p.normalized()
	var modules []model.Module
	if err := q.Order("order_index ASC").
		Limit(p.Size).Offset(p.offset()).Find(&modules).Error; err != nil {
		return nil, 0, err
	}
	return modules, total, nil
}

func (r *moduleRepository) ListActiveByCourseIDOrdered(ctx context.Context, courseID uint) ([]model.Module, error) {
	var modules []model.Module
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND active = ?", courseID, true).
		Order("order_index ASC").Find(&modules).Error
	if err != nil {
		return nil, err
	}
	return modules, nil
}

// ListActiveByCourseIDForUpdate locks the active modules of a course so
// concurrent reorders serialize on the row locks.
func (r *moduleRepository) ListActiveByCourseIDForUpdate(ctx context.Context, courseID uint) ([]model.Module, error) {
	var modules []model.Module
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("course_id = ? AND active = ?", courseID, true).
		Order("order_index ASC").Find(&modules).Error
	if err != nil {
		return nil, err
	}
	return modules, nil
}

// MaxOrderIndexByCourseID returns the highest order index among all modules of
// the course, active or not. Zero means the course has no modules yet.
func (r *moduleRepository) MaxOrderIndexByCourseID(ctx context.Context, courseID uint) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&model.Module{}).
		Where("course_id = ?", courseID).
		Select("MAX(order_index)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *moduleRepository) ExistsByTitleAndCourseID(ctx context.Context, title string, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Module{}).
		Where("LOWER(title) = LOWER(?) AND course_id = ?", title, courseID).Count(&count).Error
	return count > 0, err
}

func (r *moduleRepository) ExistsByTitleAndCourseIDExcluding(ctx context.Context, title string, courseID, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Module{}).
		Where("LOWER(title) = LOWER(?) AND course_id = ? AND id <> ?", title, courseID, id).
		Count(&count).Error
	return count > 0, err
}

func (r *moduleRepository) ExistsActiveByCourseID(ctx context.Context, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Module{}).
		Where("course_id = ? AND active = ?", courseID, true).Count(&count).Error
	return count > 0, err
}

// WithTransaction executes a function within a database transaction.
func (r *moduleRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ModuleRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &moduleRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
