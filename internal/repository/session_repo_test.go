package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/models"
)

func TestSessionRepositoryActiveLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)

	session := models.Session{Code: "AB12CD", TeacherID: 3, Subject: "Databases", Active: true, StartTime: time.Now().UTC()}
	require.NoError(t, repo.Create(context.Background(), &session))

	found, err := repo.GetActiveByCode(context.Background(), "AB12CD")
	require.NoError(t, err)
	require.Equal(t, "Databases", found.Subject)

	_, err = repo.GetActiveByCode(context.Background(), "ZZ99XX")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSessionRepositoryEndFlipsOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)

	session := models.Session{Code: "AB12CD", TeacherID: 3, Subject: "Databases", Active: true, StartTime: time.Now().UTC()}
	require.NoError(t, repo.Create(context.Background(), &session))

	endedAt := time.Now().UTC().Truncate(time.Second)
	ended, err := repo.End(context.Background(), 3, "AB12CD", endedAt)
	require.NoError(t, err)
	require.False(t, ended.Active)
	require.NotNil(t, ended.EndTime)

	// Ended sessions are gone from active lookup and a second end finds
	// nothing to flip.
	_, err = repo.GetActiveByCode(context.Background(), "AB12CD")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.End(context.Background(), 3, "AB12CD", time.Now().UTC())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSessionRepositoryEndChecksOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)

	session := models.Session{Code: "AB12CD", TeacherID: 3, Active: true, StartTime: time.Now().UTC()}
	require.NoError(t, repo.Create(context.Background(), &session))

	_, err := repo.End(context.Background(), 99, "AB12CD", time.Now().UTC())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The session stays active for its real owner.
	found, err := repo.GetActiveByCode(context.Background(), "AB12CD")
	require.NoError(t, err)
	require.True(t, found.Active)
}

func TestSessionRepositoryListEndedMostRecentFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)

	now := time.Now().UTC()
	older := models.Session{Code: "AA11AA", TeacherID: 3, Active: true, StartTime: now.Add(-2 * time.Hour)}
	newer := models.Session{Code: "BB22BB", TeacherID: 3, Active: true, StartTime: now.Add(-1 * time.Hour)}
	stillActive := models.Session{Code: "CC33CC", TeacherID: 3, Active: true, StartTime: now}
	require.NoError(t, repo.Create(context.Background(), &older))
	require.NoError(t, repo.Create(context.Background(), &newer))
	require.NoError(t, repo.Create(context.Background(), &stillActive))

	_, err := repo.End(context.Background(), 3, "AA11AA", now)
	require.NoError(t, err)
	_, err = repo.End(context.Background(), 3, "BB22BB", now)
	require.NoError(t, err)

	ended, err := repo.ListEnded(context.Background())
	require.NoError(t, err)
	require.Len(t, ended, 2, "active sessions are excluded")
	require.Equal(t, "BB22BB", ended[0].Code)
	require.Equal(t, "AA11AA", ended[1].Code)
}

func TestSessionRepositoryListByTeacher(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)

	require.NoError(t, repo.Create(context.Background(), &models.Session{Code: "AA11AA", TeacherID: 3, Active: true, StartTime: time.Now().UTC()}))
	require.NoError(t, repo.Create(context.Background(), &models.Session{Code: "BB22BB", TeacherID: 4, Active: true, StartTime: time.Now().UTC()}))

	sessions, err := repo.ListByTeacher(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "AA11AA", sessions[0].Code)
}
