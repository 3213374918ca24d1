package dto

import (
	"time"

	"github.com/attendly/attendly-api/internal/models"
)

// EventAttendanceMarked names the realtime event emitted on every check-in.
const EventAttendanceMarked = "attendance_marked"

// MarkAttendanceRequest is a student's check-in against an active session.
type MarkAttendanceRequest struct {
	SessionCode string  `json:"session_code" validate:"required,len=6,alphanum"`
	Latitude    float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64 `json:"longitude" validate:"min=-180,max=180"`
}

// AttendanceResponse is the wire representation of one attendance record. The
// timestamp is additionally rendered as RFC 3339 because callers depend on a
// string form.
type AttendanceResponse struct {
	ID            uint    `json:"id"`
	SessionCode   string  `json:"session_code"`
	StudentID     uint    `json:"student_id"`
	StudentName   string  `json:"student_name"`
	StudentRoll   string  `json:"student_roll,omitempty"`
	StudentAvatar string  `json:"student_avatar,omitempty"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	MarkedAt      string  `json:"marked_at"`
}

// MarkAttendanceResponse is the contract returned from a successful check-in:
// the stored record plus the denormalized session subject.
type MarkAttendanceResponse struct {
	SessionID string             `json:"sessionId"`
	Subject   string             `json:"subject"`
	Record    AttendanceResponse `json:"record"`
}

// AttendanceEvent is the payload broadcast to realtime observers of a session.
type AttendanceEvent struct {
	Event       string             `json:"event"`
	SessionCode string             `json:"session_code"`
	Record      AttendanceResponse `json:"record"`
}

// NewAttendanceResponse maps an attendance record to its wire representation.
func NewAttendanceResponse(record models.AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:            record.ID,
		SessionCode:   record.SessionCode,
		StudentID:     record.StudentID,
		StudentName:   record.StudentName,
		StudentRoll:   record.StudentRoll,
		StudentAvatar: record.StudentAvatar,
		Latitude:      record.Latitude,
		Longitude:     record.Longitude,
		MarkedAt:      record.MarkedAt.UTC().Format(time.RFC3339),
	}
}

// NewAttendanceResponseSlice maps a slice of attendance records.
func NewAttendanceResponseSlice(records []models.AttendanceRecord) []AttendanceResponse {
	responses := make([]AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewAttendanceResponse(record))
	}
	return responses
}
