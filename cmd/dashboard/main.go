package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"column3d/internal/common/config"
	"column3d/internal/common/logging"
	"column3d/internal/server"

	"github.com/rs/zerolog"
)

// ============================================================
// Dashboard Service
// ============================================================

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logging.New(cfg.LogLevel, cfg.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := server.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
