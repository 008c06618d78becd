package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rdl-tech/coupon-radar/internal/di"
	collectorService "github.com/rdl-tech/coupon-radar/internal/modules/collector/service"
	"github.com/rdl-tech/coupon-radar/internal/shared/config"
	apperrors "github.com/rdl-tech/coupon-radar/internal/shared/errors"
	httpServer "github.com/rdl-tech/coupon-radar/internal/transport/http"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
)

func main() {
	// Setup structured logging with multiple handlers using slog-multi
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	// Use Fanout to send logs to both handlers
	multiHandler := slogmulti.Fanout(textHandler, jsonHandler)
	logger := slog.New(multiHandler)
	slog.SetDefault(logger)

	// Setup dependency injection
	injector, err := di.Setup()
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	cfg := do.MustInvoke[*config.Config](injector)
	collector := do.MustInvoke[*collectorService.Service](injector)
	server := do.MustInvoke[*httpServer.Server](injector)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start the ingestion pipeline. An unauthenticated account is not
	// fatal: the operator completes the login over the ops endpoints
	// and then starts the collector.
	if err := collector.Start(ctx); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAuthRequired):
			slog.Warn("Account not authenticated; use /auth/send-code and /auth/verify, then /start")
		case errors.Is(err, apperrors.ErrNoActiveChannels):
			slog.Warn("No active channels configured; add channels and call /start")
		default:
			slog.Error("Failed to start collector", "error", err)
			os.Exit(1)
		}
	}

	// Start HTTP server
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Failed to start HTTP server", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Application started", "port", cfg.HTTPPort)
	slog.Info("Press Ctrl+C to stop")

	<-ctx.Done()
	slog.Info("Shutting down...")
}
