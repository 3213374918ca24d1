package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/models"
)

// SessionRepository exposes persistence helpers for attendance sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetActiveByCode(ctx context.Context, code string) (models.Session, error)
	// End flips the matching active session owned by teacherID to inactive and
	// stamps its end time. Returns gorm.ErrRecordNotFound when no active
	// session matches, which also covers the already-ended and wrong-owner
	// cases.
	End(ctx context.Context, teacherID uint, code string, endedAt time.Time) (models.Session, error)
	ListEnded(ctx context.Context) ([]models.Session, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Session, error)
	GetByCodeForTeacher(ctx context.Context, teacherID uint, code string) (models.Session, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository constructs a session repository backed by GORM.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetActiveByCode(ctx context.Context, code string) (models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("code = ? AND active = ?", code, true).
		First(&session).Error
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (r *sessionRepository) End(ctx context.Context, teacherID uint, code string, endedAt time.Time) (models.Session, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("code = ? AND teacher_id = ? AND active = ?", code, teacherID, true).
		Updates(map[string]interface{}{"active": false, "end_time": endedAt})
	if result.Error != nil {
		return models.Session{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Session{}, gorm.ErrRecordNotFound
	}

	var session models.Session
	err := r.db.WithContext(ctx).
		Where("code = ? AND teacher_id = ? AND active = ?", code, teacherID, false).
		Order("end_time DESC").
		First(&session).Error
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (r *sessionRepository) ListEnded(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Where("active = ?", false).
		Order("start_time DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("start_time DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) GetByCodeForTeacher(ctx context.Context, teacherID uint, code string) (models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("code = ? AND teacher_id = ?", code, teacherID).
		Order("start_time DESC").
		First(&session).Error
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}
