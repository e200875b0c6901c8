package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"learnhub/internal/errors"
	"learnhub/internal/model"
	"learnhub/internal/repository"
)

// UserService exposes user management operations.
type UserService interface {
	GetUser(ctx context.Context, id uint, actorEmail string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email, actorEmail string) (*model.User, error)
	ListUsers(ctx context.Context, p repository.Pageable, actorEmail string) ([]model.User, int64, error)
	ListUsersByActive(ctx context.Context, active bool, p repository.Pageable, actorEmail string) ([]model.User, int64, error)
	ListUsersByRole(ctx context.Context, role string, p repository.Pageable, actorEmail string) ([]model.User, int64, error)
	UpdateUser(ctx context.Context, id uint, upd UserUpdate, actorEmail string) (*model.User, error)
	DeleteUser(ctx context.Context, id uint, actorEmail string) error
}

// UserUpdate carries the optional field changes of a user update. Role and
// Active changes require an admin actor.
type UserUpdate struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
	Role      *model.Role
	Active    *bool
}

type userService struct {
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
}

// NewUserService builds a UserService.
func NewUserService(userRepo repository.UserRepository, courseRepo repository.CourseRepository) UserService {
	return &userService{userRepo: userRepo, courseRepo: courseRepo}
}

func (s *userService) GetUser(ctx context.Context, id uint, actorEmail string) (*model.User, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.readAccess(ctx, user, actorEmail); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email, actorEmail string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, errors.Validation("email cannot be blank")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound(errors.CodeUserNotFound, "user with email "+email+" not found")
		}
		return nil, err
	}
	if err := s.readAccess(ctx, user, actorEmail); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, p repository.Pageable, actorEmail string) ([]model.User, int64, error) {
	if err := s.listAccess(ctx, actorEmail); err != nil {
		return nil, 0, err
	}
	return s.userRepo.List(ctx, p)
}

func (s *userService) ListUsersByActive(ctx context.Context, active bool, p repository.Pageable, actorEmail string) ([]model.User, int64, error) {
	if err := s.listAccess(ctx, actorEmail); err != nil {
		return nil, 0, err
	}
	return s.userRepo.ListByActive(ctx, active, p)
}

func (s *userService) ListUsersByRole(ctx context.Context, role string, p repository.Pageable, actorEmail string) ([]model.User, int64, error) {
	if err := s.listAccess(ctx, actorEmail); err != nil {
		return nil, 0, err
	}

	parsed := model.Role(strings.ToUpper(strings.TrimSpace(role)))
	if !parsed.Valid() {
		return nil, 0, errors.Validation("role must be one of ADMIN, INSTRUCTOR, STUDENT")
	}
	return s.userRepo.ListByRole(ctx, parsed, p)
}

func (s *userService) UpdateUser(ctx context.Context, id uint, upd UserUpdate, actorEmail string) (*model.User, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return nil, err
	}
	if err := s.readAccessWithActor(ctx, user, actor); err != nil {
		return nil, err
	}

	if upd.Username != nil && strings.TrimSpace(*upd.Username) != "" {
		username := strings.TrimSpace(*upd.Username)
		if exists, err := s.userRepo.ExistsByUsernameExcluding(ctx, username, user.ID); err != nil {
			return nil, err
		} else if exists {
			return nil, errors.Duplicate(errors.CodeUsernameAlreadyExists, "username already exists")
		}
		user.Username = username
	}

	if upd.Email != nil && strings.TrimSpace(*upd.Email) != "" {
		email := normalizeEmail(*upd.Email)
		if exists, err := s.userRepo.ExistsByEmailExcluding(ctx, email, user.ID); err != nil {
			return nil, err
		} else if exists {
			return nil, errors.Duplicate(errors.CodeEmailAlreadyExists, "email already exists")
		}
		user.Email = email
	}

	if upd.FirstName != nil && strings.TrimSpace(*upd.FirstName) != "" {
		user.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil && strings.TrimSpace(*upd.LastName) != "" {
		user.LastName = strings.TrimSpace(*upd.LastName)
	}

	if upd.Password != nil && *upd.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if upd.Role != nil {
		if actor.Role != model.RoleAdmin {
			return nil, errors.AccessDenied("only admins can change roles")
		}
		if !upd.Role.Valid() {
			return nil, errors.Validation("role must be one of ADMIN, INSTRUCTOR, STUDENT")
		}
		user.Role = *upd.Role
	}

	if upd.Active != nil {
		if actor.Role != model.RoleAdmin {
			return nil, errors.AccessDenied("only admins can change active status")
		}
		user.Active = *upd.Active
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteUser deactivates the user instead of hard-deleting: email and
// username are renamed with a timestamp suffix so the unique constraints are
// freed for reuse.
func (s *userService) DeleteUser(ctx context.Context, id uint, actorEmail string) error {
	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return err
	}
	if actor.Role != model.RoleAdmin {
		return errors.AccessDenied("only admins can delete users")
	}
	if actor.ID == id {
		return errors.InvalidOperation(errors.CodeInvalidOperation, "admins cannot delete themselves")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == model.RoleInstructor {
		hasCourses, err := s.courseRepo.HasNonArchivedByInstructorID(ctx, user.ID)
		if err != nil {
			return err
		}
		if hasCourses {
			return errors.Conflict(errors.CodeInvalidOperation,
				"instructor has active courses and cannot be deleted")
		}
	}

	suffix := "_deleted_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	user.Username += suffix
	user.Email += suffix
	user.Active = false

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}

	log.Infof("user %d deactivated by admin %s", user.ID, actor.Email)
	return nil
}

func (s *userService) findUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound(errors.CodeUserNotFound,
				fmt.Sprintf("user with id %d not found", id))
		}
		return nil, err
	}
	return user, nil
}

// listAccess restricts user listings to admins.
func (s *userService) listAccess(ctx context.Context, actorEmail string) error {
	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return err
	}
	return adminOnly(actor, "listing users")
}

// readAccess restricts who may see a user record: students see only
// themselves, instructors see themselves and students enrolled in their
// courses, admins see everyone.
func (s *userService) readAccess(ctx context.Context, target *model.User, actorEmail string) error {
	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return err
	}
	return s.readAccessWithActor(ctx, target, actor)
}

func (s *userService) readAccessWithActor(ctx context.Context, target *model.User, actor *model.User) error {
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleStudent:
		if actor.ID == target.ID {
			return nil
		}
		return errors.AccessDenied("students can only access their own information")
	case model.RoleInstructor:
		if actor.ID == target.ID {
			return nil
		}
		enrolled, err := s.courseRepo.ExistsEnrolledStudentOfInstructor(ctx, actor.ID, target.ID)
		if err != nil {
			return err
		}
		if enrolled {
			return nil
		}
		return errors.AccessDenied("instructors can only access their own students' information")
	}
	return errors.AccessDenied("not authorized to access user information")
}
