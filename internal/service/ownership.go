package service

import "learnhub/internal/model"

// Ownership predicates over already-loaded entity snapshots. Loading is the
// caller's job; all comparisons fail closed when a snapshot or reference is
// missing.

// instructorOwnsCourse reports whether the actor is the course's instructor.
func instructorOwnsCourse(actor *model.User, course *model.Course) bool {
	if actor == nil || course == nil {
		return false
	}
	return course.InstructorID != 0 && course.InstructorID == actor.ID
}

// instructorOwnsModule reports ownership through the module's course.
func instructorOwnsModule(actor *model.User, module *model.Module, course *model.Course) bool {
	if module == nil || course == nil {
		return false
	}
	if module.CourseID != course.ID {
		return false
	}
	return instructorOwnsCourse(actor, course)
}

// instructorOwnsEnrollment reports ownership through the enrollment's course.
func instructorOwnsEnrollment(actor *model.User, enrollment *model.Enrollment, course *model.Course) bool {
	if enrollment == nil || course == nil {
		return false
	}
	if enrollment.CourseID != course.ID {
		return false
	}
	return instructorOwnsCourse(actor, course)
}

// studentOwnsEnrollment reports whether the enrollment belongs to the actor.
func studentOwnsEnrollment(actor *model.User, enrollment *model.Enrollment) bool {
	if actor == nil || enrollment == nil {
		return false
	}
	return enrollment.UserID != 0 && enrollment.UserID == actor.ID
}
