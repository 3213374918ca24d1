package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/models"
)

type sessionRepoStub struct {
	active   map[string]models.Session
	byCode   map[string]models.Session
	created  []models.Session
	endedErr error
}

func newSessionRepoStub() *sessionRepoStub {
	return &sessionRepoStub{
		active: make(map[string]models.Session),
		byCode: make(map[string]models.Session),
	}
}

func (s *sessionRepoStub) Create(_ context.Context, session *models.Session) error {
	session.ID = uint(len(s.created) + 1)
	s.created = append(s.created, *session)
	s.byCode[session.Code] = *session
	if session.Active {
		s.active[session.Code] = *session
	}
	return nil
}

func (s *sessionRepoStub) GetActiveByCode(_ context.Context, code string) (models.Session, error) {
	session, ok := s.active[code]
	if !ok {
		return models.Session{}, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (s *sessionRepoStub) End(_ context.Context, teacherID uint, code string, endedAt time.Time) (models.Session, error) {
	if s.endedErr != nil {
		return models.Session{}, s.endedErr
	}
	session, ok := s.active[code]
	if !ok || session.TeacherID != teacherID {
		return models.Session{}, gorm.ErrRecordNotFound
	}
	delete(s.active, code)
	session.Active = false
	session.EndTime = &endedAt
	s.byCode[code] = session
	return session, nil
}

func (s *sessionRepoStub) ListEnded(_ context.Context) ([]models.Session, error) {
	var ended []models.Session
	for _, session := range s.byCode {
		if !session.Active {
			ended = append(ended, session)
		}
	}
	return ended, nil
}

func (s *sessionRepoStub) ListByTeacher(_ context.Context, teacherID uint) ([]models.Session, error) {
	var sessions []models.Session
	for _, session := range s.byCode {
		if session.TeacherID == teacherID {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func (s *sessionRepoStub) GetByCodeForTeacher(_ context.Context, teacherID uint, code string) (models.Session, error) {
	session, ok := s.byCode[code]
	if !ok || session.TeacherID != teacherID {
		return models.Session{}, gorm.ErrRecordNotFound
	}
	return session, nil
}

type attendanceRepoStub struct {
	records   []models.AttendanceRecord
	createErr error
}

func (a *attendanceRepoStub) Create(_ context.Context, record *models.AttendanceRecord) error {
	if a.createErr != nil {
		return a.createErr
	}
	for _, existing := range a.records {
		if existing.SessionCode == record.SessionCode && existing.StudentID == record.StudentID {
			return gorm.ErrDuplicatedKey
		}
	}
	record.ID = uint(len(a.records) + 1)
	a.records = append(a.records, *record)
	return nil
}

func (a *attendanceRepoStub) Exists(_ context.Context, sessionCode string, studentID uint) (bool, error) {
	for _, record := range a.records {
		if record.SessionCode == sessionCode && record.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (a *attendanceRepoStub) ListBySession(_ context.Context, sessionCode string) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	for _, record := range a.records {
		if record.SessionCode == sessionCode {
			records = append(records, record)
		}
	}
	return records, nil
}

func (a *attendanceRepoStub) ListByStudent(_ context.Context, studentID uint) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	for _, record := range a.records {
		if record.StudentID == studentID {
			records = append(records, record)
		}
	}
	return records, nil
}

type notifierStub struct {
	events []dto.AttendanceEvent
}

func (n *notifierStub) ServeConnection(_ *websocket.Conn, _ RealtimeConnectionOptions) {}

func (n *notifierStub) Publish(_ context.Context, event dto.AttendanceEvent) {
	n.events = append(n.events, event)
}

func (n *notifierStub) Start(_ context.Context) {}

func testStudent() models.User {
	return models.User{ID: 7, Name: "Asha Verma", Roll: "21CS042", AvatarURL: "https://cdn.example.com/asha.png", Role: models.RoleStudent}
}

func TestAttendanceServiceMarkStoresSnapshotAndNotifies(t *testing.T) {
	sessions := newSessionRepoStub()
	sessions.active["AB12CD"] = models.Session{ID: 1, Code: "AB12CD", TeacherID: 3, Subject: "Databases", Active: true, StartTime: time.Now()}

	records := &attendanceRepoStub{}
	notifier := &notifierStub{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAttendanceService(records, sessions, notifier, validate, testLogger())

	response, err := svc.Mark(context.Background(), testStudent(), dto.MarkAttendanceRequest{
		SessionCode: "AB12CD",
		Latitude:    12.97,
		Longitude:   77.59,
	})
	require.NoError(t, err)
	require.Equal(t, "AB12CD", response.SessionID)
	require.Equal(t, "Databases", response.Subject)
	require.Equal(t, "Asha Verma", response.Record.StudentName)
	require.Equal(t, "21CS042", response.Record.StudentRoll)

	_, err = time.Parse(time.RFC3339, response.Record.MarkedAt)
	require.NoError(t, err, "timestamp must be RFC 3339")

	require.Len(t, records.records, 1)
	require.Len(t, notifier.events, 1)
	require.Equal(t, dto.EventAttendanceMarked, notifier.events[0].Event)
	require.Equal(t, "AB12CD", notifier.events[0].SessionCode)
}

func TestAttendanceServiceMarkRejectsDuplicate(t *testing.T) {
	sessions := newSessionRepoStub()
	sessions.active["AB12CD"] = models.Session{ID: 1, Code: "AB12CD", TeacherID: 3, Subject: "Databases", Active: true}

	records := &attendanceRepoStub{}
	notifier := &notifierStub{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAttendanceService(records, sessions, notifier, validate, testLogger())

	payload := dto.MarkAttendanceRequest{SessionCode: "AB12CD"}
	_, err := svc.Mark(context.Background(), testStudent(), payload)
	require.NoError(t, err)

	_, err = svc.Mark(context.Background(), testStudent(), payload)
	require.ErrorIs(t, err, ErrAlreadyMarked)
	require.Len(t, records.records, 1, "exactly one record must survive")
	require.Len(t, notifier.events, 1, "no event for the rejected duplicate")
}

func TestAttendanceServiceMarkRejectsInactiveSession(t *testing.T) {
	sessions := newSessionRepoStub()
	ended := time.Now()
	sessions.byCode["ZZ99XX"] = models.Session{ID: 2, Code: "ZZ99XX", TeacherID: 3, Active: false, EndTime: &ended}

	records := &attendanceRepoStub{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAttendanceService(records, sessions, &notifierStub{}, validate, testLogger())

	_, err := svc.Mark(context.Background(), testStudent(), dto.MarkAttendanceRequest{SessionCode: "ZZ99XX"})
	require.ErrorIs(t, err, ErrSessionNotActive)
	require.Empty(t, records.records)
}

func TestAttendanceServiceMarkLosingRacerGetsAlreadyMarked(t *testing.T) {
	sessions := newSessionRepoStub()
	sessions.active["AB12CD"] = models.Session{ID: 1, Code: "AB12CD", Active: true}

	// The existence fast path saw nothing, but the unique index rejects the
	// insert: the storage-level guard must surface as AlreadyMarked.
	records := &attendanceRepoStub{createErr: gorm.ErrDuplicatedKey}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAttendanceService(records, sessions, &notifierStub{}, validate, testLogger())

	_, err := svc.Mark(context.Background(), testStudent(), dto.MarkAttendanceRequest{SessionCode: "AB12CD"})
	require.ErrorIs(t, err, ErrAlreadyMarked)
}

func TestAttendanceServiceListBySessionChecksOwnership(t *testing.T) {
	sessions := newSessionRepoStub()
	sessions.byCode["AB12CD"] = models.Session{ID: 1, Code: "AB12CD", TeacherID: 3}

	records := &attendanceRepoStub{records: []models.AttendanceRecord{
		{ID: 1, SessionCode: "AB12CD", StudentID: 7, StudentName: "Asha Verma", MarkedAt: time.Now()},
	}}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAttendanceService(records, sessions, &notifierStub{}, validate, testLogger())

	listed, err := svc.ListBySession(context.Background(), 3, "AB12CD")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, err = svc.ListBySession(context.Background(), 99, "AB12CD")
	require.ErrorIs(t, err, ErrSessionNotFound)
}
