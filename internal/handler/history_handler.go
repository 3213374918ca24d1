package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/attendly/attendly-api/internal/service"
	"github.com/attendly/attendly-api/internal/utils"
)

// HistoryHandler exposes the student attendance report.
type HistoryHandler struct {
	history service.HistoryService
	logger  zerolog.Logger
}

// NewHistoryHandler constructs the handler.
func NewHistoryHandler(history service.HistoryService, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger.With().Str("component", "history_handler").Logger(),
	}
}

// Register wires the history route.
func (h *HistoryHandler) Register(router fiber.Router) {
	router.Get("/attendance-history", h.report)
}

func (h *HistoryHandler) report(c *fiber.Ctx) error {
	report, err := h.history.GetHistory(c.UserContext(), userIDFromContext(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build history report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build history report")
	}

	if report.CacheHit {
		c.Set("X-Cache-Hit", "true")
	} else {
		c.Set("X-Cache-Hit", "false")
	}

	return utils.SendSuccess(c, "attendance history", report)
}
