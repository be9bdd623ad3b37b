package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ripixel/checkin-server/pkg/api"
	"github.com/ripixel/checkin-server/pkg/bootstrap"
	"github.com/ripixel/checkin-server/pkg/infrastructure/sentry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, err := bootstrap.NewService(ctx)
	if err != nil {
		slog.Error("failed to initialise service", "error", err)
		os.Exit(1)
	}
	defer sentry.Flush(2 * time.Second)

	server := &http.Server{
		Addr:         svc.Config.ListenAddr,
		Handler:      api.NewServer(svc.Processor, svc.Lists, svc.Repo, svc.Logger).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		svc.Logger.Info("check-in API listening", "addr", svc.Config.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			svc.Logger.Error("server error", "error", err)
			sentry.CaptureException(err, map[string]any{"addr": svc.Config.ListenAddr}, svc.Logger)
			sentry.Flush(2 * time.Second)
			os.Exit(1)
		}
	}()

	<-shutdownCh
	svc.Logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		svc.Logger.Error("graceful shutdown failed", "error", err)
	}
}
