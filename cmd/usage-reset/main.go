package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	usagereset "github.com/rackethub/club-organizer/internal/app/usagereset"
	"github.com/rackethub/club-organizer/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting usage-reset worker", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := usagereset.New(cfg.StorageConnectionString, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("usage-reset worker stopped gracefully")
}
