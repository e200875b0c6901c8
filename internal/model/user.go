package model

import "time"

// Role classifies what a user may do in the system.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
	RoleStudent    Role = "STUDENT"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return true
	}
	return false
}

// User represents an account with one of the three platform roles.
// Users are never hard-deleted: deletion renames email/username to free the
// unique constraints and flips Active to false.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName string    `json:"first_name" gorm:"size:60;not null"`
	LastName  string    `json:"last_name" gorm:"size:60;not null"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;index"`
	Active    bool      `json:"active" gorm:"default:true;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
