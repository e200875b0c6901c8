package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"learnhub/internal/model"
)

func TestInstructorOwnsCourse(t *testing.T) {
	instructor := instructorUser(7)

	assert.True(t, instructorOwnsCourse(instructor, &model.Course{ID: 1, InstructorID: 7}))
	assert.False(t, instructorOwnsCourse(instructor, &model.Course{ID: 1, InstructorID: 8}))
	assert.False(t, instructorOwnsCourse(instructor, &model.Course{ID: 1}))
	assert.False(t, instructorOwnsCourse(nil, &model.Course{ID: 1, InstructorID: 7}))
	assert.False(t, instructorOwnsCourse(instructor, nil))
}

func TestInstructorOwnsModule(t *testing.T) {
	instructor := instructorUser(7)
	course := &model.Course{ID: 3, InstructorID: 7}

	assert.True(t, instructorOwnsModule(instructor, &model.Module{ID: 10, CourseID: 3}, course))
	// module belongs to a different course than the snapshot
	assert.False(t, instructorOwnsModule(instructor, &model.Module{ID: 10, CourseID: 4}, course))
	assert.False(t, instructorOwnsModule(instructorUser(8), &model.Module{ID: 10, CourseID: 3}, course))
	assert.False(t, instructorOwnsModule(instructor, nil, course))
	assert.False(t, instructorOwnsModule(instructor, &model.Module{ID: 10, CourseID: 3}, nil))
}

func TestInstructorOwnsEnrollment(t *testing.T) {
	instructor := instructorUser(7)
	course := &model.Course{ID: 3, InstructorID: 7}

	assert.True(t, instructorOwnsEnrollment(instructor, &model.Enrollment{ID: 20, CourseID: 3}, course))
	assert.False(t, instructorOwnsEnrollment(instructor, &model.Enrollment{ID: 20, CourseID: 4}, course))
	assert.False(t, instructorOwnsEnrollment(instructorUser(8), &model.Enrollment{ID: 20, CourseID: 3}, course))
	assert.False(t, instructorOwnsEnrollment(instructor, nil, course))
	assert.False(t, instructorOwnsEnrollment(instructor, &model.Enrollment{ID: 20, CourseID: 3}, nil))
}

func TestStudentOwnsEnrollment(t *testing.T) {
	student := studentUser(5)

	assert.True(t, studentOwnsEnrollment(student, &model.Enrollment{ID: 20, UserID: 5}))
	assert.False(t, studentOwnsEnrollment(student, &model.Enrollment{ID: 20, UserID: 6}))
	assert.False(t, studentOwnsEnrollment(student, &model.Enrollment{ID: 20}))
	assert.False(t, studentOwnsEnrollment(nil, &model.Enrollment{ID: 20, UserID: 5}))
	assert.False(t, studentOwnsEnrollment(student, nil))
}
