package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/models"
)

// AttendanceRepository persists check-in records. Create relies on the
// composite unique index over (session_code, student_id); a losing concurrent
// writer receives gorm.ErrDuplicatedKey rather than inserting a second row.
type AttendanceRepository interface {
	Create(ctx context.Context, record *models.AttendanceRecord) error
	Exists(ctx context.Context, sessionCode string, studentID uint) (bool, error)
	ListBySession(ctx context.Context, sessionCode string) ([]models.AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.AttendanceRecord, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository constructs an attendance repository backed by GORM.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepository) Exists(ctx context.Context, sessionCode string, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("session_code = ? AND student_id = ?", sessionCode, studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *attendanceRepository) ListBySession(ctx context.Context, sessionCode string) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("session_code = ?", sessionCode).
		Order("marked_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("marked_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
