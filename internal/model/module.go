package model

import "time"

// Module is an ordered unit of content inside a course. Among the active
// modules of a course the order indexes form the dense sequence 1..N; an
// archived module keeps its last index but is excluded from the sequence.
type Module struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description,omitempty"`
	OrderIndex  int       `json:"order_index" gorm:"not null;index"`
	Active      bool      `json:"active" gorm:"default:true;index"`
	CourseID    uint      `json:"course_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Course *Course `json:"-" gorm:"foreignKey:CourseID"`
}
