package dto

import (
	"time"

	"github.com/attendly/attendly-api/internal/models"
)

// NoteCreateRequest carries new note content.
type NoteCreateRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}

// NoteResponse is the wire representation of a note.
type NoteResponse struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNoteResponse maps a note model to its wire representation.
func NewNoteResponse(note models.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// NewNoteResponseSlice maps a slice of note models.
func NewNoteResponseSlice(notes []models.Note) []NoteResponse {
	responses := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, NewNoteResponse(note))
	}
	return responses
}
