package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"learnhub/internal/errors"
	"learnhub/internal/model"
)

func TestValidateProgressTransition(t *testing.T) {
	tests := []struct {
		name     string
		current  model.Progress
		next     model.Progress
		wantKind errors.Kind
	}{
		{"not started to in progress", model.ProgressNotStarted, model.ProgressInProgress, ""},
		{"not started to cancelled", model.ProgressNotStarted, model.ProgressCancelled, ""},
		{"in progress to completed", model.ProgressInProgress, model.ProgressCompleted, ""},
		{"in progress to cancelled", model.ProgressInProgress, model.ProgressCancelled, ""},
		{"not started straight to completed", model.ProgressNotStarted, model.ProgressCompleted, errors.KindInvalidTransition},
		{"in progress back to not started", model.ProgressInProgress, model.ProgressNotStarted, errors.KindInvalidTransition},
		{"completed is terminal", model.ProgressCompleted, model.ProgressInProgress, errors.KindInvalidTransition},
		{"cancelled is terminal", model.ProgressCancelled, model.ProgressInProgress, errors.KindInvalidTransition},
		{"invalid progress value", model.ProgressNotStarted, model.Progress("PAUSED"), errors.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateProgressTransition(tt.current, tt.next)

			if tt.wantKind != "" {
				assert.Error(t, err)
				assert.True(t, errors.IsKind(err, tt.wantKind))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateProgressTransitionMessages(t *testing.T) {
	err := validateProgressTransition(model.ProgressCompleted, model.ProgressCancelled)
	assert.ErrorContains(t, err, "completed enrollments are final")

	err = validateProgressTransition(model.ProgressCancelled, model.ProgressInProgress)
	assert.ErrorContains(t, err, "create a new enrollment instead")
}

func TestValidateCompletedUpdate(t *testing.T) {
	grade := decimal.NewFromInt(87)
	completed := model.ProgressCompleted
	cancelled := model.ProgressCancelled
	active := true
	now := time.Now()

	tests := []struct {
		name    string
		upd     EnrollmentUpdate
		wantErr bool
	}{
		{"grade-only correction allowed", EnrollmentUpdate{FinalGrade: &grade}, false},
		{"restating completed is a no-op", EnrollmentUpdate{Progress: &completed}, false},
		{"progress change rejected", EnrollmentUpdate{Progress: &cancelled}, true},
		{"active flag rejected", EnrollmentUpdate{IsActive: &active}, true},
		{"completion date rejected", EnrollmentUpdate{CompletionDate: &now}, true},
		{"grade with other fields rejected", EnrollmentUpdate{FinalGrade: &grade, IsActive: &active}, true},
		{"empty update allowed", EnrollmentUpdate{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCompletedUpdate(tt.upd)

			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsKind(err, errors.KindInvalidOperation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateGrade(t *testing.T) {
	assert.NoError(t, validateGrade(decimal.Zero))
	assert.NoError(t, validateGrade(decimal.NewFromInt(100)))
	assert.NoError(t, validateGrade(decimal.NewFromFloat(92.5)))
	assert.Error(t, validateGrade(decimal.NewFromFloat(-0.01)))
	assert.Error(t, validateGrade(decimal.NewFromFloat(100.01)))
}

func TestValidateCompletionDate(t *testing.T) {
	now := time.Now()
	enrolledAt := now.AddDate(0, -1, 0)

	completed := &model.Enrollment{
		Progress:         model.ProgressCompleted,
		DateOfEnrollment: enrolledAt,
	}
	inProgress := &model.Enrollment{
		Progress:         model.ProgressInProgress,
		DateOfEnrollment: enrolledAt,
	}

	assert.NoError(t, validateCompletionDate(completed, now.AddDate(0, 0, -1), now))
	assert.NoError(t, validateCompletionDate(completed, enrolledAt, now))

	err := validateCompletionDate(inProgress, now.AddDate(0, 0, -1), now)
	assert.True(t, errors.IsKind(err, errors.KindInvalidOperation))

	err = validateCompletionDate(completed, now.Add(time.Hour), now)
	assert.True(t, errors.IsKind(err, errors.KindValidation))
	assert.ErrorContains(t, err, "future")

	err = validateCompletionDate(completed, enrolledAt.AddDate(0, 0, -1), now)
	assert.True(t, errors.IsKind(err, errors.KindValidation))
	assert.ErrorContains(t, err, "precede")
}
