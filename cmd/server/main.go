package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/deeperweave/backend/internal/router"
	"github.com/deeperweave/backend/pkg/config"
	"github.com/deeperweave/backend/pkg/firebase"
	"github.com/deeperweave/backend/pkg/logging"
	"github.com/deeperweave/backend/pkg/tmdb"
	"github.com/deeperweave/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logFormat := cfg.LogFormat
	if logFormat == "" && cfg.IsDevelopment() {
		logFormat = "console"
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: logFormat})

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize databases")
	}
	defer db.CloseDB()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Firebase is optional in development: without it only local JWTs work
	// and avatar uploads are disabled.
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
	if err != nil {
		if !cfg.IsDevelopment() {
			logging.Fatal().Err(err).Msg("Failed to initialize Firebase")
		}
		logging.Warn().Err(err).Msg("Firebase disabled")
		firebaseApp = nil
	}

	tmdbOpts := []tmdb.Option{}
	if db.Redis != nil {
		tmdbOpts = append(tmdbOpts, tmdb.WithCache(tmdb.NewRedisCache(db.Redis)))
	}
	tmdbClient := tmdb.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey, tmdbOpts...)
	if cfg.TMDBAPIKey == "" {
		logging.Warn().Msg("TMDB_API_KEY not set, media lookups will fail")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	if err := router.SetupRoutes(e, router.Dependencies{
		Config:   cfg,
		DB:       db,
		Firebase: firebaseApp,
		TMDB:     tmdbClient,
	}); err != nil {
		logging.Fatal().Err(err).Msg("Failed to set up routes")
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logging.Info().Str("addr", metricsServer.Addr).Msg("Metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("Metrics server stopped")
		}
	}()

	go func() {
		logging.Info().Str("port", cfg.Port).Msg("API server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("API server stopped")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("API server shutdown failed")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Metrics server shutdown failed")
	}
}
