package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/attendly/attendly-api/internal/middleware"
	"github.com/attendly/attendly-api/internal/service"
)

// RealtimeHandler upgrades connections into session broadcast groups. Any
// authenticated connection may watch any session code; there is deliberately
// no ownership check on join.
type RealtimeHandler struct {
	service service.RealtimeService
	logger  zerolog.Logger
}

// NewRealtimeHandler constructs the handler.
func NewRealtimeHandler(service service.RealtimeService, logger zerolog.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		service: service,
		logger:  logger.With().Str("component", "realtime_handler").Logger(),
	}
}

// Register wires the websocket route.
func (h *RealtimeHandler) Register(router fiber.Router) {
	router.Use("/sessions/:code", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/sessions/:code", websocket.New(h.handleConnection))
}

func (h *RealtimeHandler) handleConnection(conn *websocket.Conn) {
	code := strings.ToUpper(strings.TrimSpace(conn.Params("code")))
	if len(code) != 6 {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusBadRequest, "invalid session code"))
		_ = conn.Close()
		return
	}

	userID := websocketUserID(conn)
	if userID == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusUnauthorized, "user id missing"))
		_ = conn.Close()
		return
	}

	baseCtx, _ := conn.Locals("request_ctx").(context.Context)

	opts := service.RealtimeConnectionOptions{
		UserID:      userID,
		SessionCode: code,
		Context:     baseCtx,
	}

	h.logger.Info().Str("user_id", userID).Str("session_code", code).Msg("realtime observer connected")
	h.service.ServeConnection(conn, opts)
	h.logger.Info().Str("user_id", userID).Str("session_code", code).Msg("realtime observer disconnected")
}

func websocketUserID(conn *websocket.Conn) string {
	switch v := conn.Locals("user_id").(type) {
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case int:
		if v < 0 {
			return ""
		}
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case string:
		return strings.TrimSpace(v)
	default:
		return ""
	}
}
