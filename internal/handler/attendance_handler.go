package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/service"
	"github.com/attendly/attendly-api/internal/utils"
)

// AttendanceHandler exposes the student check-in endpoint.
type AttendanceHandler struct {
	attendance service.AttendanceService
	auth       service.AuthService
	logger     zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(attendance service.AttendanceService, auth service.AuthService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendance: attendance,
		auth:       auth,
		logger:     logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register wires the student check-in route.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Post("/mark-attendance", h.mark)
}

func (h *AttendanceHandler) mark(c *fiber.Ctx) error {
	var payload dto.MarkAttendanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	// The record snapshots the student's current name/roll/avatar, so the
	// full profile is loaded rather than trusting token claims.
	student, err := h.auth.User(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unknown user")
	}

	response, err := h.attendance.Mark(c.UserContext(), student, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSessionNotActive):
			return utils.SendError(c, fiber.StatusBadRequest, "session not active")
		case errors.Is(err, service.ErrAlreadyMarked):
			return utils.SendError(c, fiber.StatusBadRequest, "attendance already marked")
		default:
			h.logger.Error().Err(err).Msg("failed to mark attendance")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to mark attendance")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attendance marked", response)
}
