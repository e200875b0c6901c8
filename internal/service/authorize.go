package service

import (
	"fmt"

	"learnhub/internal/errors"
	"learnhub/internal/model"
)

// Action identifies a guarded domain operation.
type Action string

const (
	ActionCreateCourse      Action = "course.create"
	ActionUpdateCourse      Action = "course.update"
	ActionArchiveCourse     Action = "course.archive"
	ActionReassignInstructor Action = "course.reassign_instructor"

	ActionCreateModule  Action = "module.create"
	ActionUpdateModule  Action = "module.update"
	ActionArchiveModule Action = "module.archive"
	ActionMoveModule    Action = "module.move"

	ActionCreateEnrollment Action = "enrollment.create"
	ActionUpdateEnrollment Action = "enrollment.update"
	ActionCancelEnrollment Action = "enrollment.cancel"
	ActionViewEnrollment   Action = "enrollment.view"

	ActionListEnrollments             Action = "enrollment.list"
	ActionListEnrollmentsByStudent    Action = "enrollment.list_by_student"
	ActionListEnrollmentsByInstructor Action = "enrollment.list_by_instructor"
	ActionListEnrollmentsByCourse     Action = "enrollment.list_by_course"
)

// OwnershipFacts are precomputed by the calling service from loaded snapshots
// (via the ownership predicates). OwnsResource means the actor transitively
// owns the target; IsSelf means the target principal is the actor.
type OwnershipFacts struct {
	OwnsResource bool
	IsSelf       bool
}

// requirement encodes what a given role needs to pass the guard.
type requirement int

const (
	deny requirement = iota
	allow
	needOwnership
	needSelf
)

type actionPolicy struct {
	mutating bool
	roles    map[model.Role]requirement
}

// permissionTable is the full role x action matrix. Admin rows are explicit so
// the table reads as the single source of truth.
var permissionTable = map[Action]actionPolicy{
	ActionCreateCourse: {mutating: true, roles: map[model.Role]requirement{
		model.RoleAdmin:      allow,
		model.RoleInstructor: needSelf, // may only create courses assigned to themselves
	}},
	ActionUpdateCourse: {mutating: true, roles: map[model.Role]requirement{
		model.RoleAdmin:      allow,
		model.RoleInstructor: needOwnership,
	}},
	ActionArchiveCourse: {mutating: true, roles: map[model.Role]requirement{
		model.RoleAdmin: allow,
	}},
	ActionReassignInstructor: {mutating: true, roles: map[model.Role]requirement{
		model.RoleAdmin: allow,
	}},

	ActionCreateModule: {mutating: true, roles: map[model.Role]requirement{
		model.RoleAdmin:      allow,
		model.RoleInstructor: needOwnership,
	}},
	ActionUpdateModule: {mutating: true, roles: map[model.Role]requirement{
		model.RoleAdmin:      allow,
		model.RoleInstructor: needOwnership,
	}},
	ActionArchiveModule: {mutating: true, roles: map[model.Role]requirement{
		model.RoleAdmin:      allow,
		model.RoleInstructor: needOwnership,
	}},
	ActionMoveModule: {mutating: true, roles: map[model.Role]requirement{
		model.RoleAdmin: allow,
	}},

	ActionCreateEnrollment: {mutating: true, roles: map[model.Role]requirement{
		model.RoleAdmin:      allow,
		model.RoleInstructor: needOwnership, // checked against the target course
		model.RoleStudent:    needSelf,      // students may only enroll themselves
	}},
	ActionUpdateEnrollment: {mutating: true, roles: map[model.Role]requirement{
		model.RoleAdmin:      allow,
		model.RoleInstructor: needOwnership,
	}},
	ActionCancelEnrollment: {mutating: true, roles: map[model.Role]requirement{
		model.RoleAdmin:   allow,
		model.RoleStudent: needSelf,
	}},
	ActionViewEnrollment: {roles: map[model.Role]requirement{
		model.RoleAdmin:      allow,
		model.RoleInstructor: needOwnership,
		model.RoleStudent:    needSelf,
	}},

	ActionListEnrollments: {roles: map[model.Role]requirement{
		model.RoleAdmin: allow,
	}},
	ActionListEnrollmentsByStudent: {roles: map[model.Role]requirement{
		model.RoleAdmin:      allow,
		model.RoleInstructor: needOwnership, // the student is enrolled in one of theirs
		model.RoleStudent:    needSelf,
	}},
	ActionListEnrollmentsByInstructor: {roles: map[model.Role]requirement{
		model.RoleAdmin:      allow,
		model.RoleInstructor: needSelf,
	}},
	ActionListEnrollmentsByCourse: {roles: map[model.Role]requirement{
		model.RoleAdmin:      allow,
		model.RoleInstructor: needOwnership,
	}},
}

// authorize checks the permission table for the actor and action. It returns
// nil when allowed and an AccessDenied error naming the action and resource
// otherwise. The guard runs before any mutation, so a denial has no side
// effects. Inactive actors are rejected for every mutating action.
func authorize(action Action, actor *model.User, resourceID uint, facts OwnershipFacts) error {
	if actor == nil {
		return errors.AccessDenied(fmt.Sprintf("%s denied: unknown actor", action))
	}

	policy, ok := permissionTable[action]
	if !ok {
		return errors.AccessDenied(fmt.Sprintf("%s denied for resource %d", action, resourceID))
	}

	if policy.mutating && !actor.Active {
		return errors.AccessDenied(fmt.Sprintf("%s denied for resource %d: inactive user", action, resourceID))
	}

	switch policy.roles[actor.Role] {
	case allow:
		return nil
	case needOwnership:
		if facts.OwnsResource {
			return nil
		}
	case needSelf:
		if facts.IsSelf {
			return nil
		}
	}

	return errors.AccessDenied(fmt.Sprintf("%s denied for resource %d", action, resourceID))
}
