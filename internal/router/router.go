package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/attendly/attendly-api/internal/config"
	"github.com/attendly/attendly-api/internal/handler"
	"github.com/attendly/attendly-api/internal/middleware"
	"github.com/attendly/attendly-api/internal/models"
	"github.com/attendly/attendly-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	SessionHandler    *handler.SessionHandler
	AttendanceHandler *handler.AttendanceHandler
	HistoryHandler    *handler.HistoryHandler
	NoteHandler       *handler.NoteHandler
	RealtimeHandler   *handler.RealtimeHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterPublic(app)
		deps.AuthHandler.RegisterProtected(app.Group("", jwtMiddleware))
	}

	if deps.NoteHandler != nil {
		deps.NoteHandler.Register(app.Group("/notes", jwtMiddleware))
	}

	student := app.Group("/student", jwtMiddleware, middleware.RequireRole(models.RoleStudent))
	if deps.AttendanceHandler != nil {
		student.Use("/mark-attendance", middleware.RateLimit("mark", 5, time.Second))
		deps.AttendanceHandler.Register(student)
	}
	if deps.HistoryHandler != nil {
		deps.HistoryHandler.Register(student)
	}

	if deps.SessionHandler != nil {
		teacher := app.Group("/teacher", jwtMiddleware, middleware.RequireRole(models.RoleTeacher))
		deps.SessionHandler.Register(teacher)
	}

	if deps.RealtimeHandler != nil {
		deps.RealtimeHandler.Register(app.Group("/ws", jwtMiddleware))
	}
}
