package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"learnhub/internal/errors"
	"learnhub/internal/model"
)

type categoryServiceMocks struct {
	categories *MockCategoryRepository
	courses    *MockCourseRepository
	users      *MockUserRepository
}

func newCategoryServiceForTest() (CategoryService, categoryServiceMocks) {
	m := categoryServiceMocks{
		categories: new(MockCategoryRepository),
		courses:    new(MockCourseRepository),
		users:      new(MockUserRepository),
	}
	svc := NewCategoryService(m.categories, m.courses, m.users)
	return svc, m
}

func (m categoryServiceMocks) assertExpectations(t *testing.T) {
	m.categories.AssertExpectations(t)
	m.courses.AssertExpectations(t)
	m.users.AssertExpectations(t)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple name", "Databases", "databases"},
		{"spaces become dashes", "Web Development", "web-development"},
		{"mixed case and padding", "  Machine Learning  ", "machine-learning"},
		{"special characters stripped", "C++ & Go!", "c-go"},
		{"collapses repeated spaces", "Data   Science", "data-science"},
		{"only special characters", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.in))
		})
	}
}

func TestCategoryService_CreateCategory(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		actor     string
		setupMock func(m categoryServiceMocks)
		wantKind  errors.Kind
	}{
		{
			name:  "admin creates a category",
			input: "Web Development",
			actor: "admin@test.local",
			setupMock: func(m categoryServiceMocks) {
				m.users.On("FindByEmail", mock.Anything, "admin@test.local").Return(adminUser(), nil)
				m.categories.On("ExistsByName", mock.Anything, "Web Development").Return(false, nil)
				m.categories.On("ExistsBySlug", mock.Anything, "web-development").Return(false, nil)
				m.categories.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Category) bool {
					return c.Name == "Web Development" && c.Slug == "web-development" && c.Active
				})).Return(nil)
			},
		},
		{
			name:  "instructor denied",
			input: "Web Development",
			actor: "instructor@test.local",
			setupMock: func(m categoryServiceMocks) {
				m.users.On("FindByEmail", mock.Anything, "instructor@test.local").Return(instructorUser(2), nil)
			},
			wantKind: errors.KindAccessDenied,
		},
		{
			name:  "duplicate name rejected",
			input: "Web Development",
			actor: "admin@test.local",
			setupMock: func(m categoryServiceMocks) {
				m.users.On("FindByEmail", mock.Anything, "admin@test.local").Return(adminUser(), nil)
				m.categories.On("ExistsByName", mock.Anything, "Web Development").Return(true, nil)
			},
			wantKind: errors.KindDuplicate,
		},
		{
			name:  "duplicate slug rejected",
			input: "Web Development",
			actor: "admin@test.local",
			setupMock: func(m categoryServiceMocks) {
				m.users.On("FindByEmail", mock.Anything, "admin@test.local").Return(adminUser(), nil)
				m.categories.On("ExistsByName", mock.Anything, "Web Development").Return(false, nil)
				m.categories.On("ExistsBySlug", mock.Anything, "web-development").Return(true, nil)
			},
			wantKind: errors.KindDuplicate,
		},
		{
			name:  "blank name rejected",
			input: "   ",
			actor: "admin@test.local",
			setupMock: func(m categoryServiceMocks) {
				m.users.On("FindByEmail", mock.Anything, "admin@test.local").Return(adminUser(), nil)
			},
			wantKind: errors.KindValidation,
		},
		{
			name:  "name without letters or digits rejected",
			input: "$$$",
			actor: "admin@test.local",
			setupMock: func(m categoryServiceMocks) {
				m.users.On("FindByEmail", mock.Anything, "admin@test.local").Return(adminUser(), nil)
			},
			wantKind: errors.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newCategoryServiceForTest()
			tt.setupMock(mocks)

			category, err := svc.CreateCategory(context.Background(), tt.input, "desc", tt.actor)

			if tt.wantKind != "" {
				assert.Error(t, err)
				assert.True(t, errors.IsKind(err, tt.wantKind))
				assert.Nil(t, category)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, category)
			}
			mocks.assertExpectations(t)
		})
	}
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	existing := func() *model.Category {
		return &model.Category{ID: 1, Name: "Databases", Slug: "databases", Active: true}
	}
	name := "Data Engineering"
	inactive := false

	t.Run("rename updates the slug", func(t *testing.T) {
		svc, mocks := newCategoryServiceForTest()
		mocks.users.On("FindByEmail", mock.Anything, "admin@test.local").Return(adminUser(), nil)
		mocks.categories.On("FindByID", mock.Anything, uint(1)).Return(existing(), nil)
		mocks.categories.On("ExistsByNameExcluding", mock.Anything, "Data Engineering", uint(1)).Return(false, nil)
		mocks.categories.On("ExistsBySlugExcluding", mock.Anything, "data-engineering", uint(1)).Return(false, nil)
		mocks.categories.On("Update", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)

		category, err := svc.UpdateCategory(context.Background(), 1, CategoryUpdate{Name: &name}, "admin@test.local")

		assert.NoError(t, err)
		assert.Equal(t, "data-engineering", category.Slug)
		mocks.assertExpectations(t)
	})

	t.Run("taken slug gets a random suffix", func(t *testing.T) {
		svc, mocks := newCategoryServiceForTest()
		mocks.users.On("FindByEmail", mock.Anything, "admin@test.local").Return(adminUser(), nil)
		mocks.categories.On("FindByID", mock.Anything, uint(1)).Return(existing(), nil)
		mocks.categories.On("ExistsByNameExcluding", mock.Anything, "Data Engineering", uint(1)).Return(false, nil)
		mocks.categories.On("ExistsBySlugExcluding", mock.Anything, "data-engineering", uint(1)).Return(true, nil)
		mocks.categories.On("Update", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)

		category, err := svc.UpdateCategory(context.Background(), 1, CategoryUpdate{Name: &name}, "admin@test.local")

		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(category.Slug, "data-engineering-"))
		assert.NotEqual(t, "data-engineering", category.Slug)
		mocks.assertExpectations(t)
	})

	t.Run("deactivation through update rejected", func(t *testing.T) {
		svc, mocks := newCategoryServiceForTest()
		mocks.users.On("FindByEmail", mock.Anything, "admin@test.local").Return(adminUser(), nil)
		mocks.categories.On("FindByID", mock.Anything, uint(1)).Return(existing(), nil)

		category, err := svc.UpdateCategory(context.Background(), 1, CategoryUpdate{Active: &inactive}, "admin@test.local")

		assert.Nil(t, category)
		assert.True(t, errors.IsKind(err, errors.KindInvalidOperation))
		mocks.assertExpectations(t)
	})

	t.Run("non-admin denied", func(t *testing.T) {
		svc, mocks := newCategoryServiceForTest()
		mocks.users.On("FindByEmail", mock.Anything, "student@test.local").Return(studentUser(5), nil)

		category, err := svc.UpdateCategory(context.Background(), 1, CategoryUpdate{Name: &name}, "student@test.local")

		assert.Nil(t, category)
		assert.True(t, errors.IsKind(err, errors.KindAccessDenied))
		mocks.assertExpectations(t)
	})
}

func TestCategoryService_ArchiveCategory(t *testing.T) {
	t.Run("archives an empty category", func(t *testing.T) {
		svc, mocks := newCategoryServiceForTest()
		mocks.users.On("FindByEmail", mock.Anything, "admin@test.local").Return(adminUser(), nil)
		mocks.categories.On("FindByID", mock.Anything, uint(1)).Return(&model.Category{ID: 1, Active: true}, nil)
		mocks.courses.On("HasNonArchivedByCategoryID", mock.Anything, uint(1)).Return(false, nil)
		mocks.categories.On("Update", mock.Anything, mock.MatchedBy(func(c *model.Category) bool {
			return !c.Active
		})).Return(nil)

		err := svc.ArchiveCategory(context.Background(), 1, "admin@test.local")

		assert.NoError(t, err)
		mocks.assertExpectations(t)
	})

	t.Run("blocked by draft or published courses", func(t *testing.T) {
		svc, mocks := newCategoryServiceForTest()
		mocks.users.On("FindByEmail", mock.Anything, "admin@test.local").Return(adminUser(), nil)
		mocks.categories.On("FindByID", mock.Anything, uint(1)).Return(&model.Category{ID: 1, Active: true}, nil)
		mocks.courses.On("HasNonArchivedByCategoryID", mock.Anything, uint(1)).Return(true, nil)

		err := svc.ArchiveCategory(context.Background(), 1, "admin@test.local")

		assert.True(t, errors.IsKind(err, errors.KindConflict))
		assert.Equal(t, errors.CodeCategoryHasCourses, errors.CodeOf(err))
		mocks.assertExpectations(t)
	})

	t.Run("category not found", func(t *testing.T) {
		svc, mocks := newCategoryServiceForTest()
		mocks.users.On("FindByEmail", mock.Anything, "admin@test.local").Return(adminUser(), nil)
		mocks.categories.On("FindByID", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)

		err := svc.ArchiveCategory(context.Background(), 1, "admin@test.local")

		assert.True(t, errors.IsKind(err, errors.KindNotFound))
		mocks.assertExpectations(t)
	})
}

func TestCategoryService_CountCourses(t *testing.T) {
	svc, mocks := newCategoryServiceForTest()
	mocks.categories.On("FindByID", mock.Anything, uint(1)).Return(&model.Category{ID: 1, Active: true}, nil)
	mocks.courses.On("CountByCategoryID", mock.Anything, uint(1)).Return(int64(7), nil)

	count, err := svc.CountCourses(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)
	mocks.assertExpectations(t)
}
