package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/attendly/attendly-api/internal/config"
	"github.com/attendly/attendly-api/internal/database"
	"github.com/attendly/attendly-api/internal/handler"
	"github.com/attendly/attendly-api/internal/middleware"
	"github.com/attendly/attendly-api/internal/models"
	"github.com/attendly/attendly-api/internal/repository"
	"github.com/attendly/attendly-api/internal/router"
	"github.com/attendly/attendly-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Session{}, &models.AttendanceRecord{}, &models.Note{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	realtimeService := service.NewRealtimeService(redisClient, cfg.RealtimeChannel, natsConn, logger)
	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	sessionService := service.NewSessionService(sessionRepo, validate, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, sessionRepo, realtimeService, validate, logger)
	historyService := service.NewHistoryService(sessionRepo, attendanceRepo, redisClient, cfg.HistoryCacheTTL, logger)
	noteService := service.NewNoteService(noteRepo, validate, logger)
	exportService := service.NewExportService(sessionRepo, attendanceRepo, logger)

	serviceCtx, cancelServices := context.WithCancel(context.Background())
	defer cancelServices()
	realtimeService.Start(serviceCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		SessionHandler:    handler.NewSessionHandler(sessionService, attendanceService, exportService, logger),
		AttendanceHandler: handler.NewAttendanceHandler(attendanceService, authService, logger),
		HistoryHandler:    handler.NewHistoryHandler(historyService, logger),
		NoteHandler:       handler.NewNoteHandler(noteService, logger),
		RealtimeHandler:   handler.NewRealtimeHandler(realtimeService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
