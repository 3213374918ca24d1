package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/models"
	"github.com/attendly/attendly-api/internal/observability"
	"github.com/attendly/attendly-api/internal/repository"
)

// AttendanceService records one check-in per (session, student) pair.
type AttendanceService interface {
	Mark(ctx context.Context, student models.User, payload dto.MarkAttendanceRequest) (dto.MarkAttendanceResponse, error)
	ListBySession(ctx context.Context, teacherID uint, sessionCode string) ([]dto.AttendanceResponse, error)
}

type attendanceService struct {
	records   repository.AttendanceRepository
	sessions  repository.SessionRepository
	notifier  RealtimeService
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(records repository.AttendanceRepository, sessions repository.SessionRepository, notifier RealtimeService, validate *validator.Validate, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		records:   records,
		sessions:  sessions,
		notifier:  notifier,
		validator: validate,
		logger:    logger.With().Str("component", "attendance_service").Logger(),
		tracer:    otel.Tracer("github.com/attendly/attendly-api/internal/service/attendance"),
		now:       time.Now,
	}
}

// Mark validates the target session, then inserts the record. The existence
// check is only a fast path: two concurrent callers can both pass it, and the
// unique index decides the winner. The loser surfaces ErrAlreadyMarked.
func (s *attendanceService) Mark(ctx context.Context, student models.User, payload dto.MarkAttendanceRequest) (dto.MarkAttendanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MarkAttendanceResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "attendance.mark", trace.WithAttributes(
		attribute.String("session.code", payload.SessionCode),
		attribute.Int64("student.id", int64(student.ID)),
	))
	defer span.End()

	session, err := s.sessions.GetActiveByCode(spanCtx, payload.SessionCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.CheckinsTotal().WithLabelValues("inactive_session").Inc()
			return dto.MarkAttendanceResponse{}, ErrSessionNotActive
		}
		span.RecordError(err)
		return dto.MarkAttendanceResponse{}, fmt.Errorf("failed to look up session: %w", err)
	}

	marked, err := s.records.Exists(spanCtx, session.Code, student.ID)
	if err != nil {
		span.RecordError(err)
		return dto.MarkAttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if marked {
		observability.CheckinsTotal().WithLabelValues("duplicate").Inc()
		return dto.MarkAttendanceResponse{}, ErrAlreadyMarked
	}

	record := models.AttendanceRecord{
		SessionCode:   session.Code,
		StudentID:     student.ID,
		StudentName:   student.Name,
		StudentRoll:   student.Roll,
		StudentAvatar: student.AvatarURL,
		Latitude:      payload.Latitude,
		Longitude:     payload.Longitude,
		MarkedAt:      s.now().UTC(),
	}

	if err := s.records.Create(spanCtx, &record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.CheckinsTotal().WithLabelValues("duplicate").Inc()
			return dto.MarkAttendanceResponse{}, ErrAlreadyMarked
		}
		span.RecordError(err)
		return dto.MarkAttendanceResponse{}, fmt.Errorf("failed to store attendance: %w", err)
	}

	observability.CheckinsTotal().WithLabelValues("ok").Inc()

	response := dto.NewAttendanceResponse(record)
	if s.notifier != nil {
		s.notifier.Publish(spanCtx, dto.AttendanceEvent{
			Event:       dto.EventAttendanceMarked,
			SessionCode: session.Code,
			Record:      response,
		})
	}

	s.logger.Info().
		Str("session_code", session.Code).
		Uint("student_id", student.ID).
		Msg("attendance marked")

	return dto.MarkAttendanceResponse{
		SessionID: session.Code,
		Subject:   session.Subject,
		Record:    response,
	}, nil
}

// ListBySession returns the raw records for one of the caller's sessions.
func (s *attendanceService) ListBySession(ctx context.Context, teacherID uint, sessionCode string) ([]dto.AttendanceResponse, error) {
	if _, err := s.sessions.GetByCodeForTeacher(ctx, teacherID, sessionCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	records, err := s.records.ListBySession(ctx, sessionCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	return dto.NewAttendanceResponseSlice(records), nil
}
