package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/observability"
)

const (
	realtimeSendBufferSize = 32
	realtimeEventTTL       = 30 * time.Minute
	realtimePingInterval   = 30 * time.Second
)

// RealtimeConnectionOptions wraps metadata extracted during the HTTP upgrade.
type RealtimeConnectionOptions struct {
	UserID      string
	SessionCode string
	Context     context.Context
}

// RealtimeService fans out check-in events to observers watching a session
// code. Delivery is at-most-once and best-effort: slow consumers drop events
// and nothing is replayed after a disconnect beyond the cached last event.
type RealtimeService interface {
	ServeConnection(conn *websocket.Conn, opts RealtimeConnectionOptions)
	Publish(ctx context.Context, event dto.AttendanceEvent)
	Start(ctx context.Context)
}

type realtimeService struct {
	redis       *redis.Client
	redisStream string
	redisCache  string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	hub         *sessionHub
	nodeID      string
}

// sessionHub owns the session-code -> observer mapping. All access goes
// through the mutex; there is no ambient global registry.
type sessionHub struct {
	mu    sync.RWMutex
	rooms map[string]map[*sessionObserver]struct{}
	log   zerolog.Logger
}

type sessionObserver struct {
	conn    *websocket.Conn
	send    chan dto.AttendanceEvent
	options RealtimeConnectionOptions
	service *realtimeService
	closed  chan struct{}
	once    sync.Once
}

type realtimeEnvelope struct {
	Source string              `json:"source"`
	Event  dto.AttendanceEvent `json:"event"`
	SentAt time.Time           `json:"sent_at"`
}

// NewRealtimeService creates the websocket fan-out service. Redis and NATS are
// optional; with both nil the hub still broadcasts within this process.
func NewRealtimeService(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) RealtimeService {
	hub := &sessionHub{
		rooms: make(map[string]map[*sessionObserver]struct{}),
		log:   logger.With().Str("component", "session_hub").Logger(),
	}

	stream := ""
	cache := ""
	subject := ""
	if channelBase != "" {
		stream = channelBase + ":attendance"
		cache = channelBase + ":attendance:last"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".attendance"
	}

	return &realtimeService{
		redis:       redisClient,
		redisStream: stream,
		redisCache:  cache,
		nats:        natsConn,
		natsSubject: subject,
		logger:      logger.With().Str("component", "realtime_service").Logger(),
		hub:         hub,
		nodeID:      uuid.NewString(),
	}
}

func (s *realtimeService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *realtimeService) ServeConnection(conn *websocket.Conn, opts RealtimeConnectionOptions) {
	baseCtx := opts.Context
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	observer := &sessionObserver{
		conn:    conn,
		send:    make(chan dto.AttendanceEvent, realtimeSendBufferSize),
		options: opts,
		service: s,
		closed:  make(chan struct{}),
	}

	s.hub.register(observer)
	observability.RealtimeConnections().Inc()
	defer observability.RealtimeConnections().Dec()

	if last := s.fetchLastEvent(baseCtx, opts.SessionCode); last != nil {
		select {
		case observer.send <- *last:
		default:
		}
	}

	go observer.writer()
	observer.reader()
}

// Publish delivers the event to local observers and forwards it to the other
// nodes. Failures are logged and swallowed: notification never fails a write.
func (s *realtimeService) Publish(ctx context.Context, event dto.AttendanceEvent) {
	if event.Event == "" {
		event.Event = dto.EventAttendanceMarked
	}

	s.hub.broadcast(event.SessionCode, event)
	s.cacheLastEvent(ctx, event)
	observability.RealtimeEventsPublished().Inc()

	envelope := realtimeEnvelope{
		Source: s.nodeID,
		Event:  event,
		SentAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal realtime event")
		return
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish realtime event to redis")
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish realtime event to nats")
		}
	}
}

func (s *realtimeService) cacheLastEvent(ctx context.Context, event dto.AttendanceEvent) {
	if s.redis == nil || s.redisCache == "" {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	key := fmt.Sprintf("%s:%s", s.redisCache, event.SessionCode)
	if err := s.redis.Set(ctx, key, payload, realtimeEventTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache realtime event")
	}
}

func (s *realtimeService) fetchLastEvent(ctx context.Context, sessionCode string) *dto.AttendanceEvent {
	if s.redis == nil || s.redisCache == "" {
		return nil
	}

	key := fmt.Sprintf("%s:%s", s.redisCache, sessionCode)
	result, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return nil
	}

	var event dto.AttendanceEvent
	if err := json.Unmarshal([]byte(result), &event); err != nil {
		return nil
	}

	return &event
}

func (s *realtimeService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() {
		_ = pubsub.Close()
	}()
	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("realtime redis subscription closed")
			return
		}
		s.handleRemote([]byte(msg.Payload))
	}
}

func (s *realtimeService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "attendly-realtime", func(msg *nats.Msg) {
		s.handleRemote(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats realtime subject")
		return
	}
	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain realtime nats subscription")
		}
	}()
}

func (s *realtimeService) handleRemote(data []byte) {
	var envelope realtimeEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		s.logger.Warn().Err(err).Msg("invalid realtime envelope")
		return
	}

	if envelope.Source == s.nodeID {
		return
	}

	s.hub.broadcast(envelope.Event.SessionCode, envelope.Event)
}

func (h *sessionHub) register(observer *sessionObserver) {
	h.mu.Lock()
	defer h.mu.Unlock()

	code := observer.options.SessionCode
	if _, exists := h.rooms[code]; !exists {
		h.rooms[code] = make(map[*sessionObserver]struct{})
	}
	h.rooms[code][observer] = struct{}{}
	h.log.Debug().Str("session_code", code).Str("user_id", observer.options.UserID).Msg("observer joined")
}

func (h *sessionHub) unregister(observer *sessionObserver) {
	h.mu.Lock()
	defer h.mu.Unlock()

	code := observer.options.SessionCode
	if observers, ok := h.rooms[code]; ok {
		delete(observers, observer)
		if len(observers) == 0 {
			delete(h.rooms, code)
		}
	}
	h.log.Debug().Str("session_code", code).Str("user_id", observer.options.UserID).Msg("observer left")
}

func (h *sessionHub) broadcast(sessionCode string, event dto.AttendanceEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for observer := range h.rooms[sessionCode] {
		select {
		case observer.send <- event:
		default:
			h.log.Warn().Str("session_code", sessionCode).Str("user_id", observer.options.UserID).Msg("dropping event for slow observer")
		}
	}
}

// reader only watches for the connection closing; observers never send data.
func (o *sessionObserver) reader() {
	defer o.close()

	for {
		if _, _, err := o.conn.ReadMessage(); err != nil {
			o.service.logger.Debug().Err(err).Msg("realtime read loop ended")
			return
		}
	}
}

func (o *sessionObserver) writer() {
	defer o.close()

	for {
		select {
		case event, ok := <-o.send:
			if !ok {
				return
			}
			if err := o.conn.WriteJSON(event); err != nil {
				o.service.logger.Debug().Err(err).Msg("realtime write loop terminated")
				return
			}
		case <-time.After(realtimePingInterval):
			if err := o.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				return
			}
		case <-o.closed:
			return
		}
	}
}

func (o *sessionObserver) close() {
	o.once.Do(func() {
		close(o.closed)
		o.service.hub.unregister(o)
		_ = o.conn.Close()
	})
}
