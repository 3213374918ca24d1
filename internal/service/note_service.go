package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/models"
	"github.com/attendly/attendly-api/internal/repository"
)

// NoteService stores and lists user-owned notes.
type NoteService interface {
	Create(ctx context.Context, userID uint, payload dto.NoteCreateRequest) (dto.NoteResponse, error)
	List(ctx context.Context, userID uint) ([]dto.NoteResponse, error)
}

type noteService struct {
	notes     repository.NoteRepository
	validator *validator.Validate
	logger    zerolog.Logger
	sanitizer *bluemonday.Policy
}

// NewNoteService constructs the note service.
func NewNoteService(notes repository.NoteRepository, validate *validator.Validate, logger zerolog.Logger) NoteService {
	return &noteService{
		notes:     notes,
		validator: validate,
		logger:    logger.With().Str("component", "note_service").Logger(),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (s *noteService) Create(ctx context.Context, userID uint, payload dto.NoteCreateRequest) (dto.NoteResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NoteResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.NoteResponse{}, ErrNoteEmpty
	}

	note := models.Note{
		UserID:  userID,
		Content: content,
	}

	if err := s.notes.Create(ctx, &note); err != nil {
		return dto.NoteResponse{}, fmt.Errorf("failed to create note: %w", err)
	}

	return dto.NewNoteResponse(note), nil
}

func (s *noteService) List(ctx context.Context, userID uint) ([]dto.NoteResponse, error) {
	notes, err := s.notes.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return dto.NewNoteResponseSlice(notes), nil
}
