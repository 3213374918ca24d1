package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/models"
	"github.com/attendly/attendly-api/internal/observability"
	"github.com/attendly/attendly-api/internal/repository"
)

// HistoryService builds a student's present/absent report across all ended
// sessions. Active sessions are excluded entirely, so a check-in against an
// in-progress session only shows up once the teacher ends it.
type HistoryService interface {
	GetHistory(ctx context.Context, studentID uint) (dto.HistoryResponse, error)
}

type historyService struct {
	sessions repository.SessionRepository
	records  repository.AttendanceRepository
	cache    *redis.Client
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewHistoryService constructs the history aggregator. The redis client may be
// nil, in which case every call hits storage.
func NewHistoryService(sessions repository.SessionRepository, records repository.AttendanceRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) HistoryService {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &historyService{
		sessions: sessions,
		records:  records,
		cache:    cache,
		ttl:      ttl,
		logger:   logger.With().Str("component", "history_service").Logger(),
	}
}

func (s *historyService) GetHistory(ctx context.Context, studentID uint) (dto.HistoryResponse, error) {
	start := time.Now()
	defer func() {
		observability.HistoryLatency().Observe(time.Since(start).Seconds())
	}()

	cacheKey := ""
	if s.cache != nil {
		cacheKey = fmt.Sprintf("history:v1:%d", studentID)
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response dto.HistoryResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				response.CacheHit = true
				return response, nil
			}
		}
	}

	sessions, err := s.sessions.ListEnded(ctx)
	if err != nil {
		return dto.HistoryResponse{}, fmt.Errorf("failed to list ended sessions: %w", err)
	}

	records, err := s.records.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.HistoryResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	byCode := make(map[string]models.AttendanceRecord, len(records))
	for _, record := range records {
		byCode[record.SessionCode] = record
	}

	entries := make([]dto.HistoryEntry, 0, len(sessions))
	for _, session := range sessions {
		entry := dto.HistoryEntry{
			SessionCode: session.Code,
			Subject:     session.Subject,
			Date:        session.StartTime,
			Status:      dto.StatusAbsent,
			Latitude:    session.Latitude,
			Longitude:   session.Longitude,
		}
		if record, ok := byCode[session.Code]; ok {
			entry.Status = dto.StatusPresent
			entry.Date = record.MarkedAt
			entry.Latitude = record.Latitude
			entry.Longitude = record.Longitude
		}
		entries = append(entries, entry)
	}

	response := dto.HistoryResponse{Entries: entries}

	if cacheKey != "" {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache history report")
			}
		}
	}

	return response, nil
}
