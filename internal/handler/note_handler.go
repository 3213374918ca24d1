package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/service"
	"github.com/attendly/attendly-api/internal/utils"
)

// NoteHandler exposes note CRUD for the authenticated user.
type NoteHandler struct {
	notes  service.NoteService
	logger zerolog.Logger
}

// NewNoteHandler constructs the handler.
func NewNoteHandler(notes service.NoteService, logger zerolog.Logger) *NoteHandler {
	return &NoteHandler{
		notes:  notes,
		logger: logger.With().Str("component", "note_handler").Logger(),
	}
}

// Register wires the note routes.
func (h *NoteHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
}

func (h *NoteHandler) create(c *fiber.Ctx) error {
	var payload dto.NoteCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	note, err := h.notes.Create(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNoteEmpty):
			return utils.SendError(c, fiber.StatusBadRequest, "note content is empty")
		default:
			h.logger.Error().Err(err).Msg("failed to create note")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create note")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "note created", note)
}

func (h *NoteHandler) list(c *fiber.Ctx) error {
	notes, err := h.notes.List(c.UserContext(), userIDFromContext(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list notes")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list notes")
	}

	return utils.SendSuccess(c, "notes", notes)
}
