package service

import (
	"fmt"

	"learnhub/internal/errors"
	"learnhub/internal/model"
)

// courseTransitions is the allowed-transition table for course status.
// ARCHIVED is terminal and only reachable through the dedicated archive
// operation, never through the general update path.
var courseTransitions = map[model.CourseStatus]map[model.CourseStatus]bool{
	model.CourseStatusDraft: {
		model.CourseStatusPublished: true,
	},
	model.CourseStatusPublished: {
		model.CourseStatusDraft:    true,
		model.CourseStatusArchived: true,
	},
	model.CourseStatusArchived: {},
}

func canTransitionCourse(from, to model.CourseStatus) bool {
	return courseTransitions[from][to]
}

// validateCourseStatusChange guards a status change requested through the
// general update path. The category snapshot is required when publishing.
func validateCourseStatusChange(course *model.Course, to model.CourseStatus, category *model.Category) error {
	if !to.Valid() {
		return errors.Validation(fmt.Sprintf("invalid course status %q", to))
	}
	if to == course.Status {
		return nil
	}

	if to == model.CourseStatusArchived {
		return errors.InvalidOperation(errors.CodeInvalidOperation,
			"use the archive endpoint to archive a course")
	}

	if !canTransitionCourse(course.Status, to) {
		return errors.InvalidTransition(
			fmt.Sprintf("cannot transition course from %s to %s", course.Status, to))
	}

	if to == model.CourseStatusPublished {
		if category == nil || !category.Active {
			return errors.InvalidTransition("cannot publish a course into an inactive category")
		}
	}

	return nil
}
