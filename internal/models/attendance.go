package models

import "time"

// AttendanceRecord is an immutable check-in. Student name, roll and avatar are
// snapshotted at check-in time so later profile edits never rewrite history.
// The composite unique index is the authoritative guard against two concurrent
// check-ins for the same (session, student) pair.
type AttendanceRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SessionCode   string    `gorm:"size:6;not null;uniqueIndex:idx_session_student" json:"session_code"`
	StudentID     uint      `gorm:"not null;uniqueIndex:idx_session_student;index" json:"student_id"`
	StudentName   string    `gorm:"size:255;not null" json:"student_name"`
	StudentRoll   string    `gorm:"size:64" json:"student_roll"`
	StudentAvatar string    `gorm:"size:512" json:"student_avatar"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	MarkedAt      time.Time `gorm:"not null" json:"marked_at"`
	CreatedAt     time.Time `json:"created_at"`
}
