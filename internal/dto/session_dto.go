package dto

import (
	"time"

	"github.com/attendly/attendly-api/internal/models"
)

// StartSessionRequest opens a new attendance window at the teacher's location.
type StartSessionRequest struct {
	Subject   string  `json:"subject" validate:"required,min=2,max=255"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// EndSessionRequest closes an active session owned by the caller.
type EndSessionRequest struct {
	Code string `json:"code" validate:"required,len=6,alphanum"`
}

// SessionResponse is the wire representation of a session.
type SessionResponse struct {
	ID        uint       `json:"id"`
	Code      string     `json:"code"`
	TeacherID uint       `json:"teacher_id"`
	Subject   string     `json:"subject"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Active    bool       `json:"active"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// NewSessionResponse maps a session model to its wire representation.
func NewSessionResponse(session models.Session) SessionResponse {
	return SessionResponse{
		ID:        session.ID,
		Code:      session.Code,
		TeacherID: session.TeacherID,
		Subject:   session.Subject,
		Latitude:  session.Latitude,
		Longitude: session.Longitude,
		Active:    session.Active,
		StartTime: session.StartTime,
		EndTime:   session.EndTime,
	}
}

// NewSessionResponseSlice maps a slice of session models.
func NewSessionResponseSlice(sessions []models.Session) []SessionResponse {
	responses := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, NewSessionResponse(session))
	}
	return responses
}
