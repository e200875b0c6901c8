package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Progress represents the lifecycle state of an enrollment.
type Progress string

const (
	ProgressNotStarted Progress = "NOT_STARTED"
	ProgressInProgress Progress = "IN_PROGRESS"
	ProgressCompleted  Progress = "COMPLETED"
	ProgressCancelled  Progress = "CANCELLED"
)

// Valid reports whether p is a known progress value.
func (p Progress) Valid() bool {
	switch p {
	case ProgressNotStarted, ProgressInProgress, ProgressCompleted, ProgressCancelled:
		return true
	}
	return false
}

// Enrollment links a student to a course. The (user, course) pair is unique;
// the database index is the authoritative guard against duplicate enrollment.
type Enrollment struct {
	ID               uint             `json:"id" gorm:"primaryKey"`
	UserID           uint             `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID         uint             `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	DateOfEnrollment time.Time        `json:"date_of_enrollment" gorm:"not null"`
	Progress         Progress         `json:"progress" gorm:"type:varchar(20);not null;default:'NOT_STARTED';index"`
	IsActive         bool             `json:"is_active" gorm:"default:true;index"`
	CompletionDate   *time.Time       `json:"completion_date,omitempty"`
	FinalGrade       *decimal.Decimal `json:"final_grade,omitempty" gorm:"type:decimal(5,2)"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	// Relations
	User   *User   `json:"-" gorm:"foreignKey:UserID"`
	Course *Course `json:"-" gorm:"foreignKey:CourseID"`
}
