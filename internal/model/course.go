package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CourseStatus represents the lifecycle state of a course.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "DRAFT"
	CourseStatusPublished CourseStatus = "PUBLISHED"
	CourseStatusArchived  CourseStatus = "ARCHIVED"
)

// Valid reports whether s is a known course status.
func (s CourseStatus) Valid() bool {
	switch s {
	case CourseStatusDraft, CourseStatusPublished, CourseStatusArchived:
		return true
	}
	return false
}

// CourseLevel represents the difficulty of a course.
type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "BEGINNER"
	CourseLevelIntermediate CourseLevel = "INTERMEDIATE"
	CourseLevelAdvanced     CourseLevel = "ADVANCED"
)

// Valid reports whether l is a known course level.
func (l CourseLevel) Valid() bool {
	switch l {
	case CourseLevelBeginner, CourseLevelIntermediate, CourseLevelAdvanced:
		return true
	}
	return false
}

// Course is owned by its instructor and carries an ordered set of modules.
// Status moves DRAFT <-> PUBLISHED; ARCHIVED is terminal and reachable only
// through the admin archive operation.
type Course struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	Title            string          `json:"title" gorm:"uniqueIndex;size:255;not null"`
	Description      string          `json:"description,omitempty"`
	ShortDescription string          `json:"short_description,omitempty" gorm:"size:500"`
	Duration         int             `json:"duration,omitempty"`
	Price            decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Level            CourseLevel     `json:"level" gorm:"type:varchar(20);not null;index"`
	Status           CourseStatus    `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	InstructorID     uint            `json:"instructor_id" gorm:"not null;index"`
	CategoryID       uint            `json:"category_id" gorm:"not null;index"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Relations
	Instructor *User     `json:"-" gorm:"foreignKey:InstructorID"`
	Category   *Category `json:"-" gorm:"foreignKey:CategoryID"`
}
