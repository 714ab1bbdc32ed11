package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/collectops/agentboard/backend/internal/api"
	"github.com/collectops/agentboard/backend/internal/auth"
	"github.com/collectops/agentboard/backend/internal/config"
	"github.com/collectops/agentboard/backend/internal/metrics"
	"github.com/collectops/agentboard/backend/internal/pipeline"
	"github.com/collectops/agentboard/backend/internal/sheets"
	"github.com/collectops/agentboard/backend/internal/workingset"
	"github.com/collectops/agentboard/backend/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Msg("starting agentboard backend server")

	// Core services
	sessions := auth.NewManager(cfg.JWTSecret, cfg.SessionTTL, cfg.LockoutWindow, log.Logger)
	runner := pipeline.NewRunner(log.Logger)
	workingSet := workingset.NewStore(time.Now(), log.Logger)
	sheetStore := sheets.NewStore(log.Logger)
	targetStore := sheets.NewTargetStore()

	// Handlers
	authHandler := api.NewAuthHandler(sessions, log.Logger)
	uploadHandler := api.NewUploadHandler(runner, workingSet, cfg.MaxUploadBytes, log.Logger)
	gridHandler := api.NewGridHandler(workingSet, log.Logger)
	sheetsHandler := api.NewSheetsHandler(sheetStore, targetStore, log.Logger)
	dashboardHandler := api.NewDashboardHandler(workingSet, sheetStore, targetStore, log.Logger)

	// Create router
	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Register public routes (no auth required)
	r.Get("/health", healthHandler)
	r.Get("/metrics", metrics.Get().Handler())
	r.Post("/api/login", authHandler.Login)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)

		r.Post("/api/logout", authHandler.Logout)

		r.Post("/api/uploads", uploadHandler.Upload)
		r.Post("/api/uploads/{uploadID}/confirm", uploadHandler.Confirm)
		r.Delete("/api/uploads/{uploadID}", uploadHandler.Discard)

		r.Get("/api/grid", gridHandler.Get)
		r.Put("/api/grid", gridHandler.Update)
		r.Delete("/api/grid", gridHandler.Delete)
		r.Get("/api/grid/export", gridHandler.Export)

		r.Get("/api/sheets/{kind}", sheetsHandler.Get)
		r.Post("/api/sheets/{kind}", sheetsHandler.Add)
		r.Delete("/api/sheets/{kind}/{rowID}", sheetsHandler.Delete)
		r.Get("/api/sheets/{kind}/export", sheetsHandler.Export)

		r.Get("/api/targets", sheetsHandler.GetTargets)
		r.With(api.RequireAdmin).Put("/api/targets", sheetsHandler.PutTarget)
		r.With(api.RequireAdmin).Delete("/api/targets", sheetsHandler.DeleteTarget)

		r.Get("/api/dashboard", dashboardHandler.Get)
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"agentboard-backend"}`)
}
