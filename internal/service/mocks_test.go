package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"learnhub/internal/model"
	"learnhub/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmailExcluding(ctx context.Context, email string, id uint) (bool, error) {
	args := m.Called(ctx, email, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsernameExcluding(ctx context.Context, username string, id uint) (bool, error) {
	args := m.Called(ctx, username, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, p repository.Pageable) ([]model.User, int64, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ListByActive(ctx context.Context, active bool, p repository.Pageable) ([]model.User, int64, error) {
	args := m.Called(ctx, active, p)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role model.Role, p repository.Pageable) ([]model.User, int64, error) {
	args := m.Called(ctx, role, p)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByNameExcluding(ctx context.Context, name string, id uint) (bool, error) {
	args := m.Called(ctx, name, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) ExistsBySlugExcluding(ctx context.Context, slug string, id uint) (bool, error) {
	args := m.Called(ctx, slug, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, p repository.Pageable) ([]model.Category, int64, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) ListByActive(ctx context.Context, active bool, p repository.Pageable) ([]model.Category, int64, error) {
	args := m.Called(ctx, active, p)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) ListWithNoCourses(ctx context.Context, p repository.Pageable) ([]model.Category, int64, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Category), args.Get(1).(int64), args.Error(2)
}

// MockCourseRepository is a mock implementation of CourseRepository.
// WithTransaction runs the closure against the mock itself so transactional
// flows can be exercised without a database.
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, course *model.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) Update(ctx context.Context, course *model.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByTitle(ctx context.Context, title string) (*model.Course, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCourseRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	args := m.Called(ctx, title)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) ExistsByTitleExcluding(ctx context.Context, title string, id uint) (bool, error) {
	args := m.Called(ctx, title, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) List(ctx context.Context, p repository.Pageable) ([]model.Course, int64, error) {
	return m.courseList(m.Called(ctx, p))
}

func (m *MockCourseRepository) ListByStatus(ctx context.Context, status model.CourseStatus, p repository.Pageable) ([]model.Course, int64, error) {
	return m.courseList(m.Called(ctx, status, p))
}

func (m *MockCourseRepository) ListByLevel(ctx context.Context, level model.CourseLevel, p repository.Pageable) ([]model.Course, int64, error) {
	return m.courseList(m.Called(ctx, level, p))
}

func (m *MockCourseRepository) ListByInstructorID(ctx context.Context, instructorID uint, p repository.Pageable) ([]model.Course, int64, error) {
	return m.courseList(m.Called(ctx, instructorID, p))
}

func (m *MockCourseRepository) ListByCategoryName(ctx context.Context, name string, p repository.Pageable) ([]model.Course, int64, error) {
	return m.courseList(m.Called(ctx, name, p))
}

func (m *MockCourseRepository) ListFree(ctx context.Context, p repository.Pageable) ([]model.Course, int64, error) {
	return m.courseList(m.Called(ctx, p))
}

func (m *MockCourseRepository) ListPaid(ctx context.Context, p repository.Pageable) ([]model.Course, int64, error) {
	return m.courseList(m.Called(ctx, p))
}

func (m *MockCourseRepository) ListByPrice(ctx context.Context, price decimal.Decimal, p repository.Pageable) ([]model.Course, int64, error) {
	return m.courseList(m.Called(ctx, price, p))
}

func (m *MockCourseRepository) ListByPriceRange(ctx context.Context, min, max decimal.Decimal, p repository.Pageable) ([]model.Course, int64, error) {
	return m.courseList(m.Called(ctx, min, max, p))
}

func (m *MockCourseRepository) CountByCategoryID(ctx context.Context, categoryID uint) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCourseRepository) HasNonArchivedByCategoryID(ctx context.Context, categoryID uint) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) HasNonArchivedByInstructorID(ctx context.Context, instructorID uint) (bool, error) {
	args := m.Called(ctx, instructorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) ExistsEnrolledStudentOfInstructor(ctx context.Context, instructorID, studentID uint) (bool, error) {
	args := m.Called(ctx, instructorID, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.CourseRepository) error) error {
	return fn(ctx, m)
}

func (m *MockCourseRepository) courseList(args mock.Arguments) ([]model.Course, int64, error) {
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Course), args.Get(1).(int64), args.Error(2)
}

// MockModuleRepository is a mock implementation of ModuleRepository.
// WithTransaction runs the closure against the mock itself.
type MockModuleRepository struct {
	mock.Mock
}

func (m *MockModuleRepository) Create(ctx context.Context, module *model.Module) error {
	args := m.Called(ctx, module)
	return args.Error(0)
}

func (m *MockModuleRepository) Update(ctx context.Context, module *model.Module) error {
	args := m.Called(ctx, module)
	return args.Error(0)
}

func (m *MockModuleRepository) SaveAll(ctx context.Context, modules []model.Module) error {
	args := m.Called(ctx, modules)
	return args.Error(0)
}

func (m *MockModuleRepository) FindByID(ctx context.Context, id uint) (*model.Module, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Module), args.Error(1)
}

func (m *MockModuleRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Module, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Module), args.Error(1)
}

func (m *MockModuleRepository) List(ctx context.Context, p repository.Pageable) ([]model.Module, int64, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Module), args.Get(1).(int64), args.Error(2)
}

func (m *MockModuleRepository) ListByCourseID(ctx context.Context, courseID uint, p repository.Pageable) ([]model.Module, int64, error) {
	args := m.Called(ctx, courseID, p)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Module), args.Get(1).(int64), args.Error(2)
}

func (m *MockModuleRepository) ListActiveByCourseIDOrdered(ctx context.Context, courseID uint) ([]model.Module, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Module), args.Error(1)
}

func (m *MockModuleRepository) ListActiveByCourseIDForUpdate(ctx context.Context, courseID uint) ([]model.Module, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Module), args.Error(1)
}

func (m *MockModuleRepository) MaxOrderIndexByCourseID(ctx context.Context, courseID uint) (int, error) {
	args := m.Called(ctx, courseID)
	return args.Int(0), args.Error(1)
}

func (m *MockModuleRepository) ExistsByTitleAndCourseID(ctx context.Context, title string, courseID uint) (bool, error) {
	args := m.Called(ctx, title, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockModuleRepository) ExistsByTitleAndCourseIDExcluding(ctx context.Context, title string, courseID, id uint) (bool, error) {
	args := m.Called(ctx, title, courseID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockModuleRepository) ExistsActiveByCourseID(ctx context.Context, courseID uint) (bool, error) {
	args := m.Called(ctx, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockModuleRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.ModuleRepository) error) error {
	return fn(ctx, m)
}

// MockEnrollmentRepository is a mock implementation of EnrollmentRepository.
// WithTransaction runs the closure against the mock itself.
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) Update(ctx context.Context, enrollment *model.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) FindByID(ctx context.Context, id uint) (*model.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) ExistsByUserIDAndCourseID(ctx context.Context, userID, courseID uint) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) List(ctx context.Context, p repository.Pageable) ([]model.Enrollment, int64, error) {
	return m.enrollmentList(m.Called(ctx, p))
}

func (m *MockEnrollmentRepository) ListByUserID(ctx context.Context, userID uint, p repository.Pageable) ([]model.Enrollment, int64, error) {
	return m.enrollmentList(m.Called(ctx, userID, p))
}

func (m *MockEnrollmentRepository) ListByCourseID(ctx context.Context, courseID uint, p repository.Pageable) ([]model.Enrollment, int64, error) {
	return m.enrollmentList(m.Called(ctx, courseID, p))
}

func (m *MockEnrollmentRepository) ListByInstructorID(ctx context.Context, instructorID uint, p repository.Pageable) ([]model.Enrollment, int64, error) {
	return m.enrollmentList(m.Called(ctx, instructorID, p))
}

func (m *MockEnrollmentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.EnrollmentRepository) error) error {
	return fn(ctx, m)
}

func (m *MockEnrollmentRepository) enrollmentList(args mock.Arguments) ([]model.Enrollment, int64, error) {
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Enrollment), args.Get(1).(int64), args.Error(2)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// Fixture principals shared across service tests.
func adminUser() *model.User {
	return &model.User{ID: 1, Email: "admin@test.local", Role: model.RoleAdmin, Active: true}
}

func instructorUser(id uint) *model.User {
	return &model.User{ID: id, Email: "instructor@test.local", Role: model.RoleInstructor, Active: true}
}

func studentUser(id uint) *model.User {
	return &model.User{ID: id, Email: "student@test.local", Role: model.RoleStudent, Active: true}
}
