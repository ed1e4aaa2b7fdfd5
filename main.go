package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	appLogger "github.com/voyaiger/voyaiger-server/app/logger"
	appMiddleware "github.com/voyaiger/voyaiger-server/app/middleware"
	"github.com/voyaiger/voyaiger-server/app/tracer"
	"github.com/voyaiger/voyaiger-server/config"
	"github.com/voyaiger/voyaiger-server/internal/container"
	"github.com/voyaiger/voyaiger-server/internal/router"
)

// @title           Voyaiger API
// @version         1.0
// @description     Budget-aware travel itinerary generation: allocates a trip budget across hotels, attractions and food, assembles up to three bookable options, and manages saved itineraries with collaboration invites.
// @BasePath        /api/v1
func main() {
	// Standard log until slog is configured, in case godotenv fails.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.Setup(cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracerShutdown, err := tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port, logger)
	if err != nil {
		logger.Error("Failed to initialize tracing and metrics", slog.Any("error", err))
		os.Exit(1)
	}

	c, err := container.NewContainer(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to build dependency container", slog.Any("error", err))
		os.Exit(1)
	}
	defer c.Close()

	if !c.WaitForDB(ctx) {
		logger.Error("Database not ready after waiting, exiting")
		os.Exit(1)
	}
	if err := c.RunMigrations(); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	mainRouter := router.SetupRouter(&router.Config{
		ItineraryHandler: c.ItineraryHandler,
	})

	timeout := cfg.Server.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(timeout))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Use(appMiddleware.SecurityHeaders)
	mux.Mount("/", mainRouter)

	// pprof registers itself on the default mux; keep it off the API port and
	// out of production.
	if cfg.Mode == "development" && cfg.Handlers.Pprof.Port != "" {
		go func() {
			logger.Info("pprof enabled", slog.String("address", cfg.Handlers.Pprof.Port))
			if err := http.ListenAndServe(cfg.Handlers.Pprof.Port, nil); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("pprof server failed", slog.Any("error", err))
			}
		}()
	}

	srv := &http.Server{
		Addr:         cfg.Server.HTTPPort,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: timeout,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", srv.Addr))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	if err := tracerShutdown(shutdownCtx); err != nil {
		logger.Error("Telemetry shutdown failed", slog.Any("error", err))
	}

	logger.Info("Application shut down complete")
}
