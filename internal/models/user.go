package models

import "time"

// Roles a user account can hold.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// User is an account able to authenticate against the API. Students check in
// to sessions, teachers open and close them.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:16;not null;default:student" json:"role"`
	Roll      string    `gorm:"size:64" json:"roll"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
