package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/models"
	"github.com/attendly/attendly-api/internal/observability"
	"github.com/attendly/attendly-api/internal/repository"
)

const (
	sessionCodeLength   = 6
	sessionCodeCharset  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	sessionCodeAttempts = 5
)

// SessionService opens and closes attendance windows.
type SessionService interface {
	Start(ctx context.Context, teacherID uint, payload dto.StartSessionRequest) (dto.SessionResponse, error)
	End(ctx context.Context, teacherID uint, payload dto.EndSessionRequest) (dto.SessionResponse, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]dto.SessionResponse, error)
}

type sessionService struct {
	sessions  repository.SessionRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSessionService constructs the session service.
func NewSessionService(sessions repository.SessionRepository, validate *validator.Validate, logger zerolog.Logger) SessionService {
	return &sessionService{
		sessions:  sessions,
		validator: validate,
		logger:    logger.With().Str("component", "session_service").Logger(),
		now:       time.Now,
	}
}

// Start opens a session with a freshly generated code. Codes are only unique
// among currently-active sessions, so generation retries while a clash with an
// active code exists.
func (s *sessionService) Start(ctx context.Context, teacherID uint, payload dto.StartSessionRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	code, err := s.generateCode(ctx)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	session := models.Session{
		Code:      code,
		TeacherID: teacherID,
		Subject:   payload.Subject,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
		Active:    true,
		StartTime: s.now().UTC(),
	}

	if err := s.sessions.Create(ctx, &session); err != nil {
		return dto.SessionResponse{}, fmt.Errorf("failed to create session: %w", err)
	}

	observability.SessionsStarted().Inc()
	s.logger.Info().Str("code", code).Uint("teacher_id", teacherID).Msg("session started")

	return dto.NewSessionResponse(session), nil
}

// End closes the caller's active session. Already-ended and wrong-owner cases
// both surface ErrSessionNotFound; the first end time always wins.
func (s *sessionService) End(ctx context.Context, teacherID uint, payload dto.EndSessionRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	session, err := s.sessions.End(ctx, teacherID, payload.Code, s.now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrSessionNotFound
		}
		return dto.SessionResponse{}, fmt.Errorf("failed to end session: %w", err)
	}

	observability.SessionsEnded().Inc()
	s.logger.Info().Str("code", session.Code).Uint("teacher_id", teacherID).Msg("session ended")

	return dto.NewSessionResponse(session), nil
}

func (s *sessionService) ListByTeacher(ctx context.Context, teacherID uint) ([]dto.SessionResponse, error) {
	sessions, err := s.sessions.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return dto.NewSessionResponseSlice(sessions), nil
}

func (s *sessionService) generateCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < sessionCodeAttempts; attempt++ {
		code, err := randomCode(sessionCodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate session code: %w", err)
		}

		_, err = s.sessions.GetActiveByCode(ctx, code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check session code: %w", err)
		}

		s.logger.Warn().Str("code", code).Msg("session code collision, retrying")
	}

	return "", fmt.Errorf("exhausted %d attempts generating a unique session code", sessionCodeAttempts)
}

func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	for i, b := range buf {
		buf[i] = sessionCodeCharset[int(b)%len(sessionCodeCharset)]
	}

	return string(buf), nil
}
