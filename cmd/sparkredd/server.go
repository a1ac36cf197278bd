package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	v1 "github.com/vmunix/sparkred/internal/api/v1"
	"github.com/vmunix/sparkred/internal/auth"
	"github.com/vmunix/sparkred/internal/catalog"
	"github.com/vmunix/sparkred/internal/config"
	"github.com/vmunix/sparkred/internal/metrics"
	"github.com/vmunix/sparkred/internal/server"
	"github.com/vmunix/sparkred/internal/tmdb"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// loadConfig loads the config at path, discovering it when path is empty.
// With no config file anywhere the defaults are used.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.Discover()
		if errors.Is(err, config.ErrNotFound) {
			cfg := config.Default()
			cfg.TMDB.APIKey = os.Getenv("TMDB_API_KEY")
			return cfg, nil
		}
		if err != nil {
			return nil, err
		}
		path = found
	}
	return config.Load(path)
}

func runServer(configPath string) error {
	// Load config
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	// === Upstream ===
	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithTimeout(cfg.TMDB.Timeout),
	)
	if !tmdbClient.Configured() {
		logger.Warn("tmdb.api_key not set; movie requests will fail with CONFIG_ERROR")
	}

	svc := catalog.NewService(tmdbClient, logger.With("component", "catalog"),
		catalog.WithDetailTTL(cfg.TMDB.DetailTTL),
	)

	// === Session gating (optional) ===
	var verifier v1.TokenVerifier
	if cfg.Auth.RequireSession {
		verifier = auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience)
	}

	// === HTTP Setup ===
	mux := http.NewServeMux()

	apiV1, err := v1.New(v1.ServerDeps{
		Catalog:        svc,
		Verifier:       verifier,
		Logger:         logger.With("component", "api"),
		Version:        version,
		TMDBConfigured: tmdbClient.Configured(),
	})
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	apiV1.RegisterRoutes(mux)

	metrics.MustRegister(nil)
	mux.Handle("GET /metrics", promhttp.Handler())

	logger.Info("server starting",
		"addr", cfg.Server.Addr(),
		"tmdb", tmdbClient.Configured(),
		"require_session", cfg.Auth.RequireSession,
		"log_level", cfg.Server.LogLevel,
	)

	// === Run until signal ===
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := server.NewRunner(v1.LogRequests(mux, logger.With("component", "http")), svc, server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		PruneInterval:   cfg.Server.PruneInterval,
	}, logger.With("component", "runner"))

	if err := runner.Run(ctx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
