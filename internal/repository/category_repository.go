package repository

import (
	"context"

	"gorm.io/gorm"

	"learnhub/internal/model"
)

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByNameExcluding(ctx context.Context, name string, id uint) (bool, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	ExistsBySlugExcluding(ctx context.Context, slug string, id uint) (bool, error)
	List(ctx context.Context, p Pageable) ([]model.Category, int64, error)
	ListByActive(ctx context.Context, active bool, p Pageable) ([]model.Category, int64, error)
	ListWithNoCourses(ctx context.Context, p Pageable) ([]model.Category, int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository builds a GORM-backed repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("LOWER(name) = LOWER(?)", name).Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) ExistsByNameExcluding(ctx context.Context, name string, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, id).Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) ExistsBySlugExcluding(ctx context.Context, slug string, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("slug = ? AND id <> ?", slug, id).Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) List(ctx context.Context, p Pageable) ([]model.Category, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&model.Category{}), p)
}

func (r *categoryRepository) ListByActive(ctx context.Context, active bool, p Pageable) ([]model.Category, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Category{}).Where("active = ?", active)
	return r.list(ctx, q, p)
}

func (r *categoryRepository) ListWithNoCourses(ctx context.Context, p Pageable) ([]model.Category, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("NOT EXISTS (SELECT 1 FROM courses WHERE courses.category_id = categories.id)")
	return r.list(ctx, q, p)
}

func (r *categoryRepository) list(ctx context.Context, q *gorm.DB, p Pageable) ([]model.Category, int64, error) {
	p = p.normalized("id", "name", "created_at")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []model.Category
	if err := q.Order(p.order("id")).Limit(p.Size).Offset(p.offset()).Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}
