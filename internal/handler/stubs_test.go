package handler_test

import (
	"context"
	"errors"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/models"
)

var errStubNotConfigured = errors.New("stub not configured")

type attendanceServiceStub struct {
	markFn func(ctx context.Context, student models.User, payload dto.MarkAttendanceRequest) (dto.MarkAttendanceResponse, error)
	listFn func(ctx context.Context, teacherID uint, sessionCode string) ([]dto.AttendanceResponse, error)
}

func (s *attendanceServiceStub) Mark(ctx context.Context, student models.User, payload dto.MarkAttendanceRequest) (dto.MarkAttendanceResponse, error) {
	if s.markFn == nil {
		return dto.MarkAttendanceResponse{}, errStubNotConfigured
	}
	return s.markFn(ctx, student, payload)
}

func (s *attendanceServiceStub) ListBySession(ctx context.Context, teacherID uint, sessionCode string) ([]dto.AttendanceResponse, error) {
	if s.listFn == nil {
		return nil, errStubNotConfigured
	}
	return s.listFn(ctx, teacherID, sessionCode)
}

type authServiceStub struct {
	registerFn func(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	loginFn    func(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	profileFn  func(ctx context.Context, userID uint) (dto.UserResponse, error)
	userFn     func(ctx context.Context, userID uint) (models.User, error)
}

func (s *authServiceStub) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if s.registerFn == nil {
		return dto.AuthResponse{}, errStubNotConfigured
	}
	return s.registerFn(ctx, payload)
}

func (s *authServiceStub) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if s.loginFn == nil {
		return dto.AuthResponse{}, errStubNotConfigured
	}
	return s.loginFn(ctx, payload)
}

func (s *authServiceStub) Profile(ctx context.Context, userID uint) (dto.UserResponse, error) {
	if s.profileFn == nil {
		return dto.UserResponse{}, errStubNotConfigured
	}
	return s.profileFn(ctx, userID)
}

func (s *authServiceStub) User(ctx context.Context, userID uint) (models.User, error) {
	if s.userFn == nil {
		return models.User{}, errStubNotConfigured
	}
	return s.userFn(ctx, userID)
}

type sessionServiceStub struct {
	startFn func(ctx context.Context, teacherID uint, payload dto.StartSessionRequest) (dto.SessionResponse, error)
	endFn   func(ctx context.Context, teacherID uint, payload dto.EndSessionRequest) (dto.SessionResponse, error)
	listFn  func(ctx context.Context, teacherID uint) ([]dto.SessionResponse, error)
}

func (s *sessionServiceStub) Start(ctx context.Context, teacherID uint, payload dto.StartSessionRequest) (dto.SessionResponse, error) {
	if s.startFn == nil {
		return dto.SessionResponse{}, errStubNotConfigured
	}
	return s.startFn(ctx, teacherID, payload)
}

func (s *sessionServiceStub) End(ctx context.Context, teacherID uint, payload dto.EndSessionRequest) (dto.SessionResponse, error) {
	if s.endFn == nil {
		return dto.SessionResponse{}, errStubNotConfigured
	}
	return s.endFn(ctx, teacherID, payload)
}

func (s *sessionServiceStub) ListByTeacher(ctx context.Context, teacherID uint) ([]dto.SessionResponse, error) {
	if s.listFn == nil {
		return nil, errStubNotConfigured
	}
	return s.listFn(ctx, teacherID)
}

type exportServiceStub struct {
	sheetFn func(ctx context.Context, teacherID uint, sessionCode string) ([]byte, string, error)
}

func (s *exportServiceStub) SessionSheet(ctx context.Context, teacherID uint, sessionCode string) ([]byte, string, error) {
	if s.sheetFn == nil {
		return nil, "", errStubNotConfigured
	}
	return s.sheetFn(ctx, teacherID, sessionCode)
}
