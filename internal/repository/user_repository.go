package repository

import (
	"context"

	"gorm.io/gorm"

	"learnhub/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmailExcluding(ctx context.Context, email string, id uint) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByUsernameExcluding(ctx context.Context, username string, id uint) (bool, error)
	List(ctx context.Context, p Pageable) ([]model.User, int64, error)
	ListByActive(ctx context.Context, active bool, p Pageable) ([]model.User, int64, error)
	ListByRole(ctx context.Context, role model.Role, p Pageable) ([]model.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("LOWER(email) = LOWER(?)", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByEmailExcluding(ctx context.Context, email string, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("LOWER(email) = LOWER(?) AND id <> ?", email, id).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("LOWER(username) = LOWER(?)", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByUsernameExcluding(ctx context.Context, username string, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("LOWER(username) = LOWER(?) AND id <> ?", username, id).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) List(ctx context.Context, p Pageable) ([]model.User, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&model.User{}), p)
}

func (r *userRepository) ListByActive(ctx context.Context, active bool, p Pageable) ([]model.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("active = ?", active)
	return r.list(ctx, q, p)
}

func (r *userRepository) ListByRole(ctx context.Context, role model.Role, p Pageable) ([]model.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", role)
	return r.list(ctx, q, p)
}

func (r *userRepository) list(ctx context.Context, q *gorm.DB, p Pageable) ([]model.User, int64, error) {
	p = p.normalized("id", "email", "username", "created_at")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	if err := q.Order(p.order("id")).Limit(p.Size).Offset(p.offset()).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
