package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"learnhub/internal/errors"
	"learnhub/internal/model"
	"learnhub/internal/repository"
)

// CategoryService exposes category management operations.
type CategoryService interface {
	CreateCategory(ctx context.Context, name, description, actorEmail string) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uint, upd CategoryUpdate, actorEmail string) (*model.Category, error)
	ArchiveCategory(ctx context.Context, id uint, actorEmail string) error
	GetCategory(ctx context.Context, id uint) (*model.Category, error)
	ListCategories(ctx context.Context, p repository.Pageable) ([]model.Category, int64, error)
	ListCategoriesByActive(ctx context.Context, active bool, p repository.Pageable) ([]model.Category, int64, error)
	ListCategoriesWithNoCourses(ctx context.Context, p repository.Pageable) ([]model.Category, int64, error)
	CountCourses(ctx context.Context, id uint) (int64, error)
}

// CategoryUpdate carries the optional field changes of a category update.
// Deactivation goes through ArchiveCategory, never through here.
type CategoryUpdate struct {
	Name        *string
	Description *string
	Active      *bool
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	courseRepo   repository.CourseRepository
	userRepo     repository.UserRepository
}

// NewCategoryService builds a CategoryService. Category mutations are admin
// only; reads are open to any authenticated caller.
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, courseRepo: courseRepo, userRepo: userRepo}
}

var slugStripPattern = regexp.MustCompile(`[^a-z0-9\s-]`)

// slugify derives a URL slug from a category name.
func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = strings.Join(strings.Fields(slug), "-")
	return strings.Trim(slug, "-")
}

func (s *categoryService) CreateCategory(ctx context.Context, name, description, actorEmail string) (*model.Category, error) {
	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return nil, err
	}
	if err := adminOnly(actor, "creating a category"); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("category name cannot be empty")
	}
	slug := slugify(name)
	if slug == "" {
		return nil, errors.Validation("category name must contain letters or digits")
	}

	if exists, err := s.categoryRepo.ExistsByName(ctx, name); err != nil {
		return nil, err
	} else if exists {
		return nil, errors.Duplicate(errors.CodeCategoryAlreadyExists,
			"category with name "+name+" already exists")
	}

	if exists, err := s.categoryRepo.ExistsBySlug(ctx, slug); err != nil {
		return nil, err
	} else if exists {
		return nil, errors.Duplicate(errors.CodeSlugAlreadyExists,
			"category with slug "+slug+" already exists")
	}

	category := &model.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(description),
		Active:      true,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uint, upd CategoryUpdate, actorEmail string) (*model.Category, error) {
	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return nil, err
	}
	if err := adminOnly(actor, "updating a category"); err != nil {
		return nil, err
	}

	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		name := strings.TrimSpace(*upd.Name)

		if exists, err := s.categoryRepo.ExistsByNameExcluding(ctx, name, category.ID); err != nil {
			return nil, err
		} else if exists {
			return nil, errors.Duplicate(errors.CodeCategoryAlreadyExists,
				"category with name "+name+" already exists")
		}

		slug := slugify(name)
		if taken, err := s.categoryRepo.ExistsBySlugExcluding(ctx, slug, category.ID); err != nil {
			return nil, err
		} else if taken {
			slug = slug + "-" + uuid.NewString()[:8]
		}

		category.Name = name
		category.Slug = slug
	}

	if upd.Description != nil {
		category.Description = strings.TrimSpace(*upd.Description)
	}

	if upd.Active != nil {
		if !*upd.Active {
			return nil, errors.InvalidOperation(errors.CodeInvalidOperation,
				"use the archive endpoint to deactivate a category")
		}
		category.Active = true
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// ArchiveCategory deactivates a category. Categories still referenced by
// DRAFT or PUBLISHED courses cannot be archived.
func (s *categoryService) ArchiveCategory(ctx context.Context, id uint, actorEmail string) error {
	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return err
	}
	if err := adminOnly(actor, "archiving a category"); err != nil {
		return err
	}

	category, err := s.findCategory(ctx, id)
	if err != nil {
		return err
	}

	hasCourses, err := s.courseRepo.HasNonArchivedByCategoryID(ctx, category.ID)
	if err != nil {
		return err
	}
	if hasCourses {
		return errors.Conflict(errors.CodeCategoryHasCourses,
			fmt.Sprintf("category %d has draft or published courses and cannot be archived", id))
	}

	category.Active = false
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return fmt.Errorf("archive category: %w", err)
	}
	return nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	return s.findCategory(ctx, id)
}

func (s *categoryService) ListCategories(ctx context.Context, p repository.Pageable) ([]model.Category, int64, error) {
	return s.categoryRepo.List(ctx, p)
}

func (s *categoryService) ListCategoriesByActive(ctx context.Context, active bool, p repository.Pageable) ([]model.Category, int64, error) {
	return s.categoryRepo.ListByActive(ctx, active, p)
}

func (s *categoryService) ListCategoriesWithNoCourses(ctx context.Context, p repository.Pageable) ([]model.Category, int64, error) {
	return s.categoryRepo.ListWithNoCourses(ctx, p)
}

func (s *categoryService) CountCourses(ctx context.Context, id uint) (int64, error) {
	if _, err := s.findCategory(ctx, id); err != nil {
		return 0, err
	}
	return s.courseRepo.CountByCategoryID(ctx, id)
}

func (s *categoryService) findCategory(ctx context.Context, id uint) (*model.Category, error) {
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
