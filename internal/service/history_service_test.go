package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/models"
)

type orderedSessionRepo struct {
	*sessionRepoStub
	ended []models.Session
}

func (o *orderedSessionRepo) ListEnded(_ context.Context) ([]models.Session, error) {
	return o.ended, nil
}

func endedSession(code, subject string, start time.Time) models.Session {
	end := start.Add(time.Hour)
	return models.Session{Code: code, Subject: subject, Active: false, StartTime: start, EndTime: &end, Latitude: 1, Longitude: 2}
}

func TestHistoryServiceAllAbsentWithoutRecords(t *testing.T) {
	now := time.Now().UTC()
	sessions := &orderedSessionRepo{sessionRepoStub: newSessionRepoStub(), ended: []models.Session{
		endedSession("CC33CC", "Networks", now.Add(-1*time.Hour)),
		endedSession("BB22BB", "Databases", now.Add(-2*time.Hour)),
		endedSession("AA11AA", "Compilers", now.Add(-3*time.Hour)),
	}}

	svc := NewHistoryService(sessions, &attendanceRepoStub{}, nil, time.Minute, testLogger())

	report, err := svc.GetHistory(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, report.Entries, 3)
	for _, entry := range report.Entries {
		require.Equal(t, dto.StatusAbsent, entry.Status)
	}
}

func TestHistoryServicePresentUsesAttendanceTimestamp(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	sessionStart := now.Add(-2 * time.Hour)
	markedAt := now.Add(-90 * time.Minute)

	sessions := &orderedSessionRepo{sessionRepoStub: newSessionRepoStub(), ended: []models.Session{
		endedSession("XX11XX", "Databases", sessionStart),
		endedSession("YY22YY", "Networks", now.Add(-4*time.Hour)),
	}}
	records := &attendanceRepoStub{records: []models.AttendanceRecord{
		{SessionCode: "XX11XX", StudentID: 7, MarkedAt: markedAt, Latitude: 12.97, Longitude: 77.59},
	}}

	svc := NewHistoryService(sessions, records, nil, time.Minute, testLogger())

	report, err := svc.GetHistory(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, report.Entries, 2)

	present := report.Entries[0]
	require.Equal(t, "XX11XX", present.SessionCode)
	require.Equal(t, dto.StatusPresent, present.Status)
	require.Equal(t, markedAt, present.Date, "date must come from the check-in")

	absent := report.Entries[1]
	require.Equal(t, "YY22YY", absent.SessionCode)
	require.Equal(t, dto.StatusAbsent, absent.Status)
	require.Equal(t, now.Add(-4*time.Hour), absent.Date, "date must fall back to session start")
}

func TestHistoryServicePreservesMostRecentFirstOrdering(t *testing.T) {
	now := time.Now().UTC()
	sessions := &orderedSessionRepo{sessionRepoStub: newSessionRepoStub(), ended: []models.Session{
		endedSession("CC33CC", "Networks", now.Add(-1*time.Hour)),
		endedSession("BB22BB", "Databases", now.Add(-2*time.Hour)),
	}}

	svc := NewHistoryService(sessions, &attendanceRepoStub{}, nil, time.Minute, testLogger())

	report, err := svc.GetHistory(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "CC33CC", report.Entries[0].SessionCode)
	require.Equal(t, "BB22BB", report.Entries[1].SessionCode)
}

func TestHistoryServiceCachesReport(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	now := time.Now().UTC()
	sessions := &orderedSessionRepo{sessionRepoStub: newSessionRepoStub(), ended: []models.Session{
		endedSession("AA11AA", "Compilers", now.Add(-1*time.Hour)),
	}}

	svc := NewHistoryService(sessions, &attendanceRepoStub{}, redisClient, time.Minute, testLogger())

	first, err := svc.GetHistory(context.Background(), 7)
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	sessions.ended = nil
	cached, err := svc.GetHistory(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, cached.CacheHit)
	require.Len(t, cached.Entries, 1)
}
