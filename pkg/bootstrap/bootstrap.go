// Package bootstrap wires configuration, logging, and the service
// dependency graph.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	shared "github.com/ripixel/checkin-server/pkg"
	"github.com/ripixel/checkin-server/pkg/checklist"
	"github.com/ripixel/checkin-server/pkg/infrastructure/oauth"
	"github.com/ripixel/checkin-server/pkg/infrastructure/sentry"
	"github.com/ripixel/checkin-server/pkg/integrations/fitbit"
	"github.com/ripixel/checkin-server/pkg/integrations/strava"
	"github.com/ripixel/checkin-server/pkg/processor"
	"github.com/ripixel/checkin-server/pkg/storage/file"
)

// Config holds standard configuration for the server.
type Config struct {
	DataDir     string
	ListenAddr  string
	SentryDSN   string
	Environment string
	Release     string
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() *Config {
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
	}
	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	return &Config{
		DataDir:     dataDir,
		ListenAddr:  listenAddr,
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Environment: environment,
		Release:     os.Getenv("RELEASE"),
	}
}

// logLevelFromEnv maps LOG_LEVEL to a slog level, defaulting to info.
func logLevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ComponentHandler wraps a slog.Handler to prepend [component] to the message.
type ComponentHandler struct {
	slog.Handler
	component string
}

// WithGroup implements slog.Handler.
func (h *ComponentHandler) WithGroup(name string) slog.Handler {
	return &ComponentHandler{
		Handler:   h.Handler.WithGroup(name),
		component: h.component,
	}
}

// WithAttrs implements slog.Handler.
func (h *ComponentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newComp := h.component
	for _, a := range attrs {
		if a.Key == "component" {
			newComp = a.Value.String()
		}
	}
	return &ComponentHandler{
		Handler:   h.Handler.WithAttrs(attrs),
		component: newComp,
	}
}

// Handle implements slog.Handler.
func (h *ComponentHandler) Handle(ctx context.Context, r slog.Record) error {
	comp := h.component

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			comp = a.Value.String()
			return false
		}
		return true
	})

	if comp != "" {
		newRecord := slog.NewRecord(r.Time, r.Level, fmt.Sprintf("[%s] %s", comp, r.Message), r.PC)
		r.Attrs(func(a slog.Attr) bool {
			newRecord.AddAttrs(a)
			return true
		})
		r = newRecord
	}

	return h.Handler.Handle(ctx, r)
}

// NewLogger creates a configured JSON logger instance.
func NewLogger(serviceName string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevelFromEnv()}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(&ComponentHandler{Handler: handler}).With("service", serviceName)
}

// InitLogger installs the configured logger as the process default.
func InitLogger(serviceName string) *slog.Logger {
	logger := NewLogger(serviceName)
	slog.SetDefault(logger)
	return logger
}

// Service holds initialized dependencies.
type Service struct {
	Repo      shared.Repository
	Lists     *checklist.Store
	Processor *processor.Processor
	Config    *Config
	Logger    *slog.Logger
}

// NewService initializes all standard dependencies.
func NewService(ctx context.Context) (*Service, error) {
	cfg := LoadConfig()
	logger := InitLogger("checkin-api")

	logger.Info("Initializing service", "data_dir", cfg.DataDir, "environment", cfg.Environment)

	if err := sentry.Init(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
	}, logger); err != nil {
		// Error tracking is best-effort; the pipeline runs without it.
		logger.Error("Sentry init failed", "error", err)
	}

	repo, err := file.NewRepository(cfg.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("repository init: %w", err)
	}

	lists, err := checklist.NewStore(ctx, repo, logger)
	if err != nil {
		return nil, fmt.Errorf("checklist init: %w", err)
	}

	credStore := file.NewCredentialStore(cfg.DataDir, logger)
	healthService := fitbit.NewClient(oauth.NewFitbitTokenSource(credStore, logger), logger)
	activityService := strava.NewClient(oauth.NewStravaTokenSource(credStore, logger), logger)

	proc := processor.New(lists, activityService, healthService, repo, logger)

	return &Service{
		Repo:      repo,
		Lists:     lists,
		Processor: proc,
		Config:    cfg,
		Logger:    logger,
	}, nil
}
