package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"learnhub/internal/errors"
	"learnhub/internal/model"
	"learnhub/internal/repository"
)

// EnrollmentService exposes enrollment management operations. Every mutation
// and read is guarded by the permission table; precondition checks on create
// run in a fixed order so callers get the most specific error first.
type EnrollmentService interface {
	CreateEnrollment(ctx context.Context, userID, courseID uint, actorEmail string) (*model.Enrollment, error)
	UpdateEnrollment(ctx context.Context, id uint, upd EnrollmentUpdate, actorEmail string) (*model.Enrollment, error)
	CancelEnrollment(ctx context.Context, id uint, actorEmail string) error
	GetEnrollment(ctx context.Context, id uint, actorEmail string) (*model.Enrollment, error)
	ListEnrollments(ctx context.Context, p repository.Pageable, actorEmail string) ([]model.Enrollment, int64, error)
	ListEnrollmentsByStudent(ctx context.Context, studentID uint, p repository.Pageable, actorEmail string) ([]model.Enrollment, int64, error)
	ListEnrollmentsByInstructor(ctx context.Context, instructorID uint, p repository.Pageable, actorEmail string) ([]model.Enrollment, int64, error)
	ListEnrollmentsByCourse(ctx context.Context, courseID uint, p repository.Pageable, actorEmail string) ([]model.Enrollment, int64, error)
}

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	courseRepo     repository.CourseRepository
	userRepo       repository.UserRepository
}

// NewEnrollmentService builds an EnrollmentService.
func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
	}
}

func (s *enrollmentService) CreateEnrollment(ctx context.Context, userID, courseID uint, actorEmail string) (*model.Enrollment, error) {
	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return nil, err
	}

	course, err := s.findCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	facts := OwnershipFacts{
		OwnsResource: instructorOwnsCourse(actor, course),
		IsSelf:       actor.ID == userID,
	}
	if err := authorize(ActionCreateEnrollment, actor, courseID, facts); err != nil {
		return nil, err
	}

	exists, err := s.enrollmentRepo.ExistsByUserIDAndCourseID(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Duplicate(errors.CodeAlreadyEnrolled,
			fmt.Sprintf("user %d is already enrolled in course %d", userID, courseID))
	}

	student, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound(errors.CodeUserNotFound,
				fmt.Sprintf("user with id %d not found", userID))
		}
		return nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, errors.InvalidRole(errors.CodeUserNotStudent,
			fmt.Sprintf("user with id %d is not a student", userID))
	}
	if !student.Active {
		return nil, errors.Inactive(errors.CodeInactiveUser,
			fmt.Sprintf("user %d is no longer active", userID))
	}

	if course.Status != model.CourseStatusPublished {
		return nil, errors.Inactive(errors.CodeInactiveCourse,
			fmt.Sprintf("course %d is not open for enrollment (status %s)", courseID, course.Status))
	}
	instructor, err := s.userRepo.FindByID(ctx, course.InstructorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound(errors.CodeInstructorNotFound,
				fmt.Sprintf("instructor with id %d not found", course.InstructorID))
		}
		return nil, err
	}
	if !instructor.Active {
		return nil, errors.Inactive(errors.CodeInactiveUser,
			fmt.Sprintf("instructor %d is no longer active", instructor.ID))
	}
	if userID == course.InstructorID {
		return nil, errors.AccessDenied("an instructor cannot enroll in their own course")
	}

	enrollment := &model.Enrollment{
		UserID:           userID,
		CourseID:         courseID,
		DateOfEnrollment: time.Now(),
		Progress:         model.ProgressNotStarted,
		IsActive:         true,
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		// the unique (user, course) index catches the race the pre-check missed
		if isDuplicateKey(err) {
			return nil, errors.Duplicate(errors.CodeAlreadyEnrolled,
				fmt.Sprintf("user %d is already enrolled in course %d", userID, courseID))
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}

	log.Infof("enrollment %d created: user %d in course %d by %s",
		enrollment.ID, userID, courseID, actor.Email)
	return enrollment, nil
}

func (s *enrollmentService) UpdateEnrollment(ctx context.Context, id uint, upd EnrollmentUpdate, actorEmail string) (*model.Enrollment, error) {
	enrollment, err := s.findEnrollment(ctx, id)
	if err != nil {
		return nil, err
	}
	course, err := s.findCourse(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}

	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return nil, err
	}
	facts := OwnershipFacts{OwnsResource: instructorOwnsEnrollment(actor, enrollment, course)}
	if err := authorize(ActionUpdateEnrollment, actor, id, facts); err != nil {
		return nil, err
	}

	if enrollment.Progress == model.ProgressCompleted {
		if err := validateCompletedUpdate(upd); err != nil {
			return nil, err
		}
		if upd.FinalGrade != nil {
			if err := validateGrade(*upd.FinalGrade); err != nil {
				return nil, err
			}
			log.Infof("enrollment %d final grade corrected to %s by %s", id, upd.FinalGrade, actor.Email)
			enrollment.FinalGrade = upd.FinalGrade
		}
		if err := s.enrollmentRepo.Update(ctx, enrollment); err != nil {
			return nil, fmt.Errorf("update enrollment: %w", err)
		}
		return enrollment, nil
	}

	now := time.Now()

	if upd.Progress != nil && *upd.Progress != enrollment.Progress {
		if err := validateProgressTransition(enrollment.Progress, *upd.Progress); err != nil {
			return nil, err
		}
		enrollment.Progress = *upd.Progress
		switch *upd.Progress {
		case model.ProgressCompleted:
			if upd.CompletionDate == nil {
				enrollment.CompletionDate = &now
			}
		case model.ProgressCancelled:
			enrollment.IsActive = false
		}
	}

	if upd.FinalGrade != nil {
		if err := validateGrade(*upd.FinalGrade); err != nil {
			return nil, err
		}
		enrollment.FinalGrade = upd.FinalGrade
	}

	if upd.CompletionDate != nil {
		if err := validateCompletionDate(enrollment, *upd.CompletionDate, now); err != nil {
			return nil, err
		}
		enrollment.CompletionDate = upd.CompletionDate
	}

	if upd.IsActive != nil {
		if enrollment.Progress == model.ProgressCancelled && *upd.IsActive {
			return nil, errors.InvalidOperation(errors.CodeInvalidOperation,
				"cannot reactivate a cancelled enrollment")
		}
		enrollment.IsActive = *upd.IsActive
	}

	if err := s.enrollmentRepo.Update(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("update enrollment: %w", err)
	}
	log.Infof("enrollment %d updated by %s (progress %s)", id, actor.Email, enrollment.Progress)
	return enrollment, nil
}

// CancelEnrollment moves the enrollment to CANCELLED and deactivates it in
// one transaction.
func (s *enrollmentService) CancelEnrollment(ctx context.Context, id uint, actorEmail string) error {
	enrollment, err := s.findEnrollment(ctx, id)
	if err != nil {
		return err
	}

	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return err
	}
	facts := OwnershipFacts{IsSelf: studentOwnsEnrollment(actor, enrollment)}
	if err := authorize(ActionCancelEnrollment, actor, id, facts); err != nil {
		return err
	}

	err = s.enrollmentRepo.WithTransaction(ctx, func(ctx context.Context, tx repository.EnrollmentRepository) error {
		current, err := tx.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NotFound(errors.CodeEnrollmentNotFound,
					fmt.Sprintf("enrollment with id %d not found", id))
			}
			return err
		}

		switch current.Progress {
		case model.ProgressCompleted:
			return errors.InvalidOperation(errors.CodeInvalidOperation,
				"cannot cancel a completed enrollment")
		case model.ProgressCancelled:
			return errors.Conflict(errors.CodeAlreadyCancelled, "enrollment is already cancelled")
		}

		current.Progress = model.ProgressCancelled
		current.IsActive = false
		return tx.Update(ctx, current)
	})
	if err != nil {
		return err
	}

	log.Infof("enrollment %d cancelled by %s", id, actor.Email)
	return nil
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, id uint, actorEmail string) (*model.Enrollment, error) {
	enrollment, err := s.findEnrollment(ctx, id)
	if err != nil {
		return nil, err
	}
	course, err := s.findCourse(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}

	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return nil, err
	}
	facts := OwnershipFacts{
		OwnsResource: instructorOwnsEnrollment(actor, enrollment, course),
		IsSelf:       studentOwnsEnrollment(actor, enrollment),
	}
	if err := authorize(ActionViewEnrollment, actor, id, facts); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *enrollmentService) ListEnrollments(ctx context.Context, p repository.Pageable, actorEmail string) ([]model.Enrollment, int64, error) {
	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return nil, 0, err
	}
	if err := authorize(ActionListEnrollments, actor, 0, OwnershipFacts{}); err != nil {
		return nil, 0, err
	}
	return s.enrollmentRepo.List(ctx, p)
}

func (s *enrollmentService) ListEnrollmentsByStudent(ctx context.Context, studentID uint, p repository.Pageable, actorEmail string) ([]model.Enrollment, int64, error) {
	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return nil, 0, err
	}

	student, err := s.userRepo.FindByID(ctx, studentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, errors.NotFound(errors.CodeUserNotFound,
				fmt.Sprintf("user with id %d not found", studentID))
		}
		return nil, 0, err
	}
	if student.Role != model.RoleStudent {
		return nil, 0, errors.InvalidRole(errors.CodeUserNotStudent,
			fmt.Sprintf("user with id %d is not a student", studentID))
	}

	facts := OwnershipFacts{IsSelf: actor.ID == studentID}
	if actor.Role == model.RoleInstructor {
		owns, err := s.courseRepo.ExistsEnrolledStudentOfInstructor(ctx, actor.ID, studentID)
		if err != nil {
			return nil, 0, err
		}
		facts.OwnsResource = owns
	}
	if err := authorize(ActionListEnrollmentsByStudent, actor, studentID, facts); err != nil {
		return nil, 0, err
	}
	return s.enrollmentRepo.ListByUserID(ctx, studentID, p)
}

func (s *enrollmentService) ListEnrollmentsByInstructor(ctx context.Context, instructorID uint, p repository.Pageable, actorEmail string) ([]model.Enrollment, int64, error) {
	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return nil, 0, err
	}

	instructor, err := s.userRepo.FindByID(ctx, instructorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, errors.NotFound(errors.CodeInstructorNotFound,
				fmt.Sprintf("instructor with id %d not found", instructorID))
		}
		return nil, 0, err
	}
	if instructor.Role != model.RoleInstructor {
		return nil, 0, errors.InvalidRole(errors.CodeUserNotInstructor,
			fmt.Sprintf("user with id %d is not an instructor", instructorID))
	}

	facts := OwnershipFacts{IsSelf: actor.ID == instructorID}
	if err := authorize(ActionListEnrollmentsByInstructor, actor, instructorID, facts); err != nil {
		return nil, 0, err
	}
	return s.enrollmentRepo.ListByInstructorID(ctx, instructorID, p)
}

func (s *enrollmentService) ListEnrollmentsByCourse(ctx context.Context, courseID uint, p repository.Pageable, actorEmail string) ([]model.Enrollment, int64, error) {
	actor, err := resolveCaller(ctx, s.userRepo, actorEmail)
	if err != nil {
		return nil, 0, err
	}
	course, err := s.findCourse(ctx, courseID)
	if err != nil {
		return nil, 0, err
	}

	facts := OwnershipFacts{OwnsResource: instructorOwnsCourse(actor, course)}
	if err := authorize(ActionListEnrollmentsByCourse, actor, courseID, facts); err != nil {
		return nil, 0, err
	}
	return s.enrollmentRepo.ListByCourseID(ctx, courseID, p)
}

func (s *enrollmentService) findEnrollment(ctx context.Context, id uint) (*model.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound(errors.CodeEnrollmentNotFound,
				fmt.Sprintf("enrollment with id %d not found", id))
		}
		return nil, err
	}
	return enrollment, nil
}

func (s *enrollmentService) findCourse(ctx context.Context, id uint) (*model.Course, error) {
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

// isDuplicateKey matches a MySQL duplicate entry error (1062).
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if stderrors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
