package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"cloudstorage/internal/app"
	"cloudstorage/internal/config"
	"cloudstorage/internal/http/server"
)

const (
	envDev   = "dev"
	envProd  = "prod"
	envLocal = "local"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting application", "env", cfg.Env)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := app.NewApp(ctx, log, cfg)
	if err != nil {
		log.Error("failed to init app", slog.String("error", err.Error()))
		os.Exit(1)
	}

	go app.RunSweeper(ctx)

	srv := server.New(cfg, log, app.AuthService, app.FileService, app.Metrics)

	runErr := srv.Run(ctx)

	if err := app.Close(); err != nil {
		log.Error("failed to close app", slog.String("error", err.Error()))
	}

	if runErr != nil {
		log.Error("failed to start server", "error", runErr)
		os.Exit(1)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return log
}
