package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/service"
	"github.com/attendly/attendly-api/internal/utils"
)

// SessionHandler exposes the teacher-facing session endpoints.
type SessionHandler struct {
	sessions   service.SessionService
	attendance service.AttendanceService
	export     service.ExportService
	logger     zerolog.Logger
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(sessions service.SessionService, attendance service.AttendanceService, export service.ExportService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		attendance: attendance,
		export:     export,
		logger:     logger.With().Str("component", "session_handler").Logger(),
	}
}

// Register wires the teacher routes.
func (h *SessionHandler) Register(router fiber.Router) {
	router.Post("/start-session", h.start)
	router.Post("/end-session", h.end)
	router.Get("/sessions", h.list)
	router.Get("/session-attendance/:code", h.sessionAttendance)
	router.Get("/session-attendance/:code/export", h.exportAttendance)
}

func (h *SessionHandler) start(c *fiber.Ctx) error {
	var payload dto.StartSessionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.sessions.Start(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to start session")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to start session")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "session started", session)
}

func (h *SessionHandler) end(c *fiber.Ctx) error {
	var payload dto.EndSessionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.sessions.End(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSessionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		default:
			h.logger.Error().Err(err).Msg("failed to end session")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to end session")
		}
	}

	return utils.SendSuccess(c, "session ended", session)
}

func (h *SessionHandler) list(c *fiber.Ctx) error {
	sessions, err := h.sessions.ListByTeacher(c.UserContext(), userIDFromContext(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list sessions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list sessions")
	}

	return utils.SendSuccess(c, "sessions", sessions)
}

func (h *SessionHandler) sessionAttendance(c *fiber.Ctx) error {
	code := c.Params("code")
	records, err := h.attendance.ListBySession(c.UserContext(), userIDFromContext(c), code)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		}
		h.logger.Error().Err(err).Msg("failed to list session attendance")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list session attendance")
	}

	return utils.SendSuccess(c, "session attendance", records)
}

func (h *SessionHandler) exportAttendance(c *fiber.Ctx) error {
	code := c.Params("code")
	sheet, name, err := h.export.SessionSheet(c.UserContext(), userIDFromContext(c), code)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		}
		h.logger.Error().Err(err).Msg("failed to export session attendance")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export session attendance")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(sheet)
}
