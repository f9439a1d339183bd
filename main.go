package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/config"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/attr"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		slog.Error("Failed to load config", attr.Error(err))
		os.Exit(1)
	}

	obs := observability.Init(cfg.Observability.Environment)
	logger := obs.Logger

	application := &app.App{}
	if err := application.Initialize(ctx, cfg, obs); err != nil {
		logger.Error("Failed to initialize application", attr.Error(err))
		os.Exit(1)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-interrupt
		logger.Info("Received signal, shutting down", attr.String("signal", sig.String()))
		cancel()
	}()

	if err := application.Run(ctx); err != nil {
		logger.Error("Application stopped with error", attr.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer shutdownCancel()
	application.Close(shutdownCtx)

	logger.Info("Shutdown complete")
}
