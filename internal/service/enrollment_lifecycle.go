package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"learnhub/internal/errors"
	"learnhub/internal/model"
)

// EnrollmentUpdate carries the optional field changes of an enrollment update.
// Nil fields are left untouched.
type EnrollmentUpdate struct {
	Progress       *model.Progress
	IsActive       *bool
	CompletionDate *time.Time
	FinalGrade     *decimal.Decimal
}

// progressTransitions is the allowed-transition table for enrollment progress.
// COMPLETED and CANCELLED are terminal.
var progressTransitions = map[model.Progress]map[model.Progress]bool{
	model.ProgressNotStarted: {
		model.ProgressInProgress: true,
		model.ProgressCancelled:  true,
	},
	model.ProgressInProgress: {
		model.ProgressCompleted: true,
		model.ProgressCancelled: true,
	},
	model.ProgressCompleted: {},
	model.ProgressCancelled: {},
}

func canTransitionProgress(from, to model.Progress) bool {
	return progressTransitions[from][to]
}

// validateProgressTransition rejects edges missing from the table. Same-state
// requests are treated as a no-op by the caller and never reach this check.
func validateProgressTransition(current, next model.Progress) error {
	if !next.Valid() {
		return errors.Validation(fmt.Sprintf("invalid progress %q", next))
	}
	if canTransitionProgress(current, next) {
		return nil
	}

	switch current {
	case model.ProgressCompleted:
		return errors.InvalidTransition(
			fmt.Sprintf("cannot transition from COMPLETED to %s: completed enrollments are final", next))
	case model.ProgressCancelled:
		return errors.InvalidTransition(
			fmt.Sprintf("cannot transition from CANCELLED to %s: create a new enrollment instead", next))
	}
	if next == model.ProgressNotStarted {
		return errors.InvalidTransition(
			fmt.Sprintf("cannot transition from %s back to NOT_STARTED", current))
	}
	return errors.InvalidTransition(
		fmt.Sprintf("cannot transition from %s to %s", current, next))
}

// validateCompletedUpdate enforces the grade-correction carve-out: once an
// enrollment is COMPLETED, the only permitted mutation is the final grade.
func validateCompletedUpdate(upd EnrollmentUpdate) error {
	if upd.FinalGrade != nil && upd.Progress == nil && upd.IsActive == nil && upd.CompletionDate == nil {
		return nil
	}

	if upd.Progress != nil && *upd.Progress != model.ProgressCompleted {
		return errors.InvalidOperation(errors.CodeInvalidOperation,
			"cannot change progress of a completed enrollment")
	}
	if upd.IsActive != nil {
		return errors.InvalidOperation(errors.CodeInvalidOperation,
			"cannot change active status of a completed enrollment")
	}
	if upd.CompletionDate != nil {
		return errors.InvalidOperation(errors.CodeInvalidOperation,
			"cannot change completion date of a completed enrollment")
	}
	return nil
}

// validateGrade checks the 0..100 range.
func validateGrade(grade decimal.Decimal) error {
	if grade.IsNegative() || grade.GreaterThan(decimal.NewFromInt(100)) {
		return errors.Validation("grade must be between 0 and 100")
	}
	return nil
}

// validateCompletionDate checks an explicitly supplied completion date. It is
// only accepted while progress is already COMPLETED and must fall within
// [dateOfEnrollment, now].
func validateCompletionDate(enrollment *model.Enrollment, completionDate, now time.Time) error {
	if enrollment.Progress != model.ProgressCompleted {
		return errors.InvalidOperation(errors.CodeInvalidOperation,
			fmt.Sprintf("cannot set completion date while progress is %s", enrollment.Progress))
	}
	if completionDate.After(now) {
		return errors.Validation("completion date cannot be in the future")
	}
	if completionDate.Before(enrollment.DateOfEnrollment) {
		return errors.Validation("completion date cannot precede the enrollment date")
	}
	return nil
}
