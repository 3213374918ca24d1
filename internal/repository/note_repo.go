package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/models"
)

// NoteRepository persists user-owned notes.
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	ListByOwner(ctx context.Context, userID uint) ([]models.Note, error)
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository constructs a note repository backed by GORM.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) ListByOwner(ctx context.Context, userID uint) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}
