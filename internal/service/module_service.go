package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"learnhub/internal/errors"
	"learnhub/internal/model"
	"learnhub/internal/repository"
)

// orderingRetries bounds the retry loop around reordering transactions when
// MySQL aborts one of two concurrent reorders with a deadlock.
const orderingRetries = 3

// ModuleService exposes module management operations. Every mutation that
// touches order indexes runs inside a transaction that locks the active
// modules of the affected course, so the dense 1..N sequence survives
// concurrent writers.
type ModuleService interface {
	CreateModule(ctx context.Context, input ModuleCreate, actorEmail string) (*model.Module, error)
	UpdateModule(ctx context.Context, id uint, upd ModuleUpdate, actorEmail string) (*model.Module, error)
	ArchiveModule(ctx context.Context, id uint, actorEmail string) error
	GetModule(ctx context.Context, id uint) (*model.Module, error)
	ListModules(ctx context.Context, p repository.Pageable) ([]model.Module, int64, error)
	ListModulesByCourse(ctx context.Context, courseID uint, p repository.Pageable) ([]model.Module, int64, error)
}

// ModuleCreate carries the fields of a module creation request.
type ModuleCreate struct {
	Title       string
	Description string
	CourseID    uint
}

// ModuleUpdate carries the optional field changes of a module update.
// OrderIndex repositions the module among the active modules of its course.
// CourseID moves the module to another course and is admin only. Active may
// only be raised here; archiving goes through ArchiveModule.
type ModuleUpdate struct {
	Title       *string
	Description *string
	OrderIndex  *int
	Active      *bool
	CourseID    *uint
}

type moduleService struct {
	moduleRepo repository.ModuleRepository
	courseRepo repository.CourseRepository
	userRepo   repository.UserRepository
}

// NewModuleService builds a ModuleService.
func NewModuleService(
	moduleRepo repository.ModuleRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
) ModuleService {
	return &moduleService{
		moduleRepo: moduleRepo,
		courseRepo: courseRepo,
		userRepo:   userRepo,
	}
}

func (s *moduleService) CreateModule(ctx context.Context, input ModuleCreate, actorEmail string) (*model.Module, error) {
	course, err := s.findCourse(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}

	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return nil, err
	}
	facts := OwnershipFacts{OwnsResource: instructorOwnsCourse(actor, course)}
	if err := authorize(ActionCreateModule, actor, course.ID, facts); err != nil {
		return nil, err
	}

	if course.Status == model.CourseStatusArchived {
		return nil, errors.InvalidOperation(errors.CodeInvalidOperation,
			"cannot add modules to an archived course")
	}

	title := normalizeText(input.Title)
	if title == "" {
		return nil, errors.Validation("title cannot be empty")
	}
	if exists, err := s.moduleRepo.ExistsByTitleAndCourseID(ctx, title, course.ID); err != nil {
		return nil, err
	} else if exists {
		return nil, errors.Duplicate(errors.CodeModuleAlreadyExists,
			"a module with this title already exists in the course")
	}

	module := &model.Module{
		Title:       title,
		Description: normalizeText(input.Description),
		Active:      true,
		CourseID:    course.ID,
	}

	err = s.withOrderingRetry(func() error {
		return s.moduleRepo.WithTransaction(ctx, func(ctx context.Context, tx repository.ModuleRepository) error {
			max, err := tx.MaxOrderIndexByCourseID(ctx, course.ID)
			if err != nil {
				return err
			}
			module.OrderIndex = nextOrderIndex(max)
			return tx.Create(ctx, module)
		})
	})
	if err != nil {
		return nil, err
	}
	return module, nil
}

func (s *moduleService) UpdateModule(ctx context.Context, id uint, upd ModuleUpdate, actorEmail string) (*model.Module, error) {
	module, err := s.findModule(ctx, id)
	if err != nil {
		return nil, err
	}
	course, err := s.findCourse(ctx, module.CourseID)
	if err != nil {
		return nil, err
	}

	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return nil, err
	}
	facts := OwnershipFacts{OwnsResource: instructorOwnsModule(actor, module, course)}
	if err := authorize(ActionUpdateModule, actor, module.ID, facts); err != nil {
		return nil, err
	}

	if course.Status == model.CourseStatusArchived {
		return nil, errors.InvalidOperation(errors.CodeInvalidOperation,
			"cannot update modules of an archived course")
	}

	if upd.Active != nil && !*upd.Active && module.Active {
		return nil, errors.InvalidOperation(errors.CodeInvalidOperation,
			"deactivating a module through update is not allowed, use the archive endpoint")
	}

	targetCourse := course
	moving := upd.CourseID != nil && *upd.CourseID != module.CourseID
	if moving {
		if err := authorize(ActionMoveModule, actor, module.ID, OwnershipFacts{}); err != nil {
			return nil, err
		}
		targetCourse, err = s.findCourse(ctx, *upd.CourseID)
		if err != nil {
			return nil, err
		}
		if targetCourse.Status == model.CourseStatusArchived {
			return nil, errors.InvalidOperation(errors.CodeInvalidOperation,
				"cannot move a module into an archived course")
		}
	}

	if upd.Title != nil {
		title := normalizeText(*upd.Title)
		if title == "" {
			return nil, errors.Validation("title cannot be empty")
		}
		exists, err := s.moduleRepo.ExistsByTitleAndCourseIDExcluding(ctx, title, targetCourse.ID, module.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errors.Duplicate(errors.CodeModuleAlreadyExists,
				"a module with this title already exists in the course")
		}
		module.Title = title
	}
	if upd.Description != nil {
		module.Description = normalizeText(*upd.Description)
	}

	reactivating := upd.Active != nil && *upd.Active && !module.Active
	reordering := upd.OrderIndex != nil
	if reordering && !module.Active && !reactivating {
		return nil, errors.InvalidOperation(errors.CodeInvalidOperation,
			"cannot reorder an archived module")
	}

	if !moving && !reactivating && !reordering {
		if err := s.moduleRepo.Update(ctx, module); err != nil {
			return nil, fmt.Errorf("update module: %w", err)
		}
		return module, nil
	}

	err = s.withOrderingRetry(func() error {
		return s.moduleRepo.WithTransaction(ctx, func(ctx context.Context, tx repository.ModuleRepository) error {
			if moving {
				if module.Active {
					// compact the origin course before inserting into the target
					origin, err := tx.ListActiveByCourseIDForUpdate(ctx, module.CourseID)
					if err != nil {
						return err
					}
					remaining := origin[:0:0]
					for _, m := range origin {
						if m.ID != module.ID {
							remaining = append(remaining, m)
						}
					}
					if err := tx.SaveAll(ctx, reindexModules(remaining)); err != nil {
						return err
					}
				}
				module.CourseID = targetCourse.ID
			}

			// an inactive module moves without joining the target ordering,
			// it only gets an index when reactivated
			if !module.Active && !reactivating {
				return tx.Update(ctx, module)
			}

			target, err := tx.ListActiveByCourseIDForUpdate(ctx, targetCourse.ID)
			if err != nil {
				return err
			}

			position := len(target) + 1
			if upd.OrderIndex != nil {
				position = *upd.OrderIndex
			}
			if reactivating {
				module.Active = true
			}

			return tx.SaveAll(ctx, insertModuleAt(target, *module, position))
		})
	})
	if err != nil {
		return nil, err
	}

	// re-read for the final order index assigned inside the transaction
	return s.findModule(ctx, id)
}

// ArchiveModule deactivates a module and closes the gap it leaves in the
// ordering of its course.
func (s *moduleService) ArchiveModule(ctx context.Context, id uint, actorEmail string) error {
	module, err := s.findModule(ctx, id)
	if err != nil {
		return err
	}
	course, err := s.findCourse(ctx, module.CourseID)
	if err != nil {
		return err
	}

	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return err
	}
	facts := OwnershipFacts{OwnsResource: instructorOwnsModule(actor, module, course)}
	if err := authorize(ActionArchiveModule, actor, module.ID, facts); err != nil {
		return err
	}

	if !module.Active {
		return errors.Conflict(errors.CodeAlreadyArchived, "module is already archived")
	}

	err = s.withOrderingRetry(func() error {
		return s.moduleRepo.WithTransaction(ctx, func(ctx context.Context, tx repository.ModuleRepository) error {
			active, err := tx.ListActiveByCourseIDForUpdate(ctx, module.CourseID)
			if err != nil {
				return err
			}

			remaining := active[:0:0]
			for _, m := range active {
				if m.ID == module.ID {
					module.OrderIndex = m.OrderIndex
					continue
				}
				remaining = append(remaining, m)
			}

			module.Active = false
			if err := tx.Update(ctx, module); err != nil {
				return err
			}
			return tx.SaveAll(ctx, reindexModules(remaining))
		})
	})
	if err != nil {
		return err
	}

	log.Infof("module %d of course %d archived by %s", module.ID, module.CourseID, actor.Email)
	return nil
}

func (s *moduleService) GetModule(ctx context.Context, id uint) (*model.Module, error) {
	return s.findModule(ctx, id)
}

func (s *moduleService) ListModules(ctx context.Context, p repository.Pageable) ([]model.Module, int64, error) {
	return s.moduleRepo.List(ctx, p)
}

func (s *moduleService) ListModulesByCourse(ctx context.Context, courseID uint, p repository.Pageable) ([]model.Module, int64, error) {
	if _, err := s.findCourse(ctx, courseID); err != nil {
		return nil, 0, err
	}
	return s.moduleRepo.ListByCourseID(ctx, courseID, p)
}

func (s *moduleService) findModule(ctx context.Context, id uint) (*model.Module, error) {
	module, err := s.moduleRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound(errors.CodeModuleNotFound,
				fmt.Sprintf("module with id %d not found", id))
		}
		return nil, err
	}
	return module, nil
}

func (s *moduleService) findCourse(ctx context.Context, id uint) (*model.Course, error) {
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

// withOrderingRetry reruns fn when MySQL kills the transaction to break a
// deadlock between concurrent reorders. Other errors pass through untouched.
func (s *moduleService) withOrderingRetry(fn func() error) error {
	var err error
	for attempt := 1; attempt <= orderingRetries; attempt++ {
		err = fn()
		if err == nil || !isRetryableConflict(err) {
			return err
		}
		log.Warnf("module ordering transaction aborted (attempt %d/%d): %v", attempt, orderingRetries, err)
	}
	return errors.Conflict(errors.CodeOrderingConflict,
		"module ordering conflicted with a concurrent change, try again")
}

// isRetryableConflict matches MySQL deadlock (1213) and lock wait timeout
// (1205) errors.
func isRetryableConflict(err error) bool {
	var mysqlErr *mysql.MySQLError
	if stderrors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
