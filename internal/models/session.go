package models

import "time"

// Session is a time-bounded attendance window opened by a teacher. Codes are
// short and human-typeable; uniqueness is only enforced among currently active
// sessions, so the column carries a plain index rather than a unique one.
type Session struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Code      string     `gorm:"size:6;index;not null" json:"code"`
	TeacherID uint       `gorm:"index;not null" json:"teacher_id"`
	Subject   string     `gorm:"size:255;not null" json:"subject"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Active    bool       `gorm:"not null;default:true;index" json:"active"`
	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
