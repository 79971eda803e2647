package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"column3d/internal/common/config"
	"column3d/internal/common/logging"
	"column3d/internal/common/middleware"
	"column3d/internal/scene/export"
	"column3d/internal/scene/handlers"
	"column3d/internal/scene/repository"
	"column3d/internal/scene/service"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/rs/zerolog"
)

// ============================================================
// Dashboard Server
// ============================================================

const AppName = "Column3D Dashboard"

type Server struct {
	App *fiber.App
	cfg *config.Config
	db  *sql.DB
	log zerolog.Logger
}

// New открывает хранилище сессий, применяет миграции и собирает fiber-приложение.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Server, error) {
	db, err := repository.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	repo := repository.New(db)
	if err := repo.Init(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}

	sessions := service.NewSessionManager(repo, logging.Component(log, "sessions"))

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
		BodyLimit:    cfg.MaxUploadBytes,
		AppName:      AppName,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(logging.Component(log, "http")))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	health := handlers.NewHealthHandler(repo)
	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)

	// ============================================================
	// Scene Routes
	// ============================================================

	html := export.HTMLOptions{PlotlyURL: cfg.PlotlyURL}
	storage := service.NewExportStorage(cfg.ExportDir, html)
	scene := handlers.NewSceneHandler(sessions, storage, html, logging.Component(log, "scene"))
	scene.Register(app.Group("/api/v1"))

	// ============================================================
	// API Docs
	// ============================================================

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec)

	return &Server{App: app, cfg: cfg, db: db, log: log}, nil
}

// Run слушает порт до отмены ctx, затем останавливает сервер и закрывает базу.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	s.log.Info().Str("addr", addr).Str("env", s.cfg.Environment).Msgf("Starting %s", AppName)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		s.db.Close()
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.App.ShutdownWithContext(shutdownCtx)
	s.db.Close()
	return err
}

// Close освобождает хранилище для сервера, который не запускался через Run.
func (s *Server) Close() error {
	return s.db.Close()
}
