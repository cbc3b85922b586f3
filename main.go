package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/ojasmehta/yatra/app/db"
	appLogger "github.com/ojasmehta/yatra/app/logger"
	"github.com/ojasmehta/yatra/app/observability/metrics"
	"github.com/ojasmehta/yatra/app/tracer"
	"github.com/ojasmehta/yatra/config"
	"github.com/ojasmehta/yatra/internal/api/admin"
	"github.com/ojasmehta/yatra/internal/api/auth"
	"github.com/ojasmehta/yatra/internal/api/booking"
	"github.com/ojasmehta/yatra/internal/api/chat"
	"github.com/ojasmehta/yatra/internal/api/itinerary"
	"github.com/ojasmehta/yatra/internal/api/sites"
	"github.com/ojasmehta/yatra/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger(cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Database ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations before the main pool comes up.
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Observability ---
	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()
	appMetrics := metrics.Get()

	// --- Dependency injection ---
	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg.JWT, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	itineraryRepo := itinerary.NewPostgresRepository(pool, logger)
	itineraryService := itinerary.NewService(itineraryRepo, appMetrics, logger)
	itineraryHandler := itinerary.NewHandler(itineraryService, logger)

	bookingRepo := booking.NewPostgresRepository(pool, logger)
	bookingService := booking.NewService(bookingRepo, appMetrics, logger)
	bookingHandler := booking.NewHandler(bookingService, logger)

	aiClient, err := chat.NewGeminiClient(ctx, cfg.Gemini.Model)
	if err != nil {
		logger.Error("Failed to initialize Gemini client", slog.Any("error", err))
		os.Exit(1)
	}
	chatService := chat.NewService(aiClient, appMetrics, logger)
	chatHandler := chat.NewHandler(chatService, logger)

	sitesRepo := sites.NewPostgresRepository(pool, logger)
	sitesService := sites.NewService(sitesRepo, logger)
	sitesHandler := sites.NewHandler(sitesService, logger)

	adminRepo := admin.NewPostgresRepository(pool, logger)
	adminService := admin.NewService(adminRepo, logger)
	adminHandler := admin.NewHandler(adminService, logger)

	// --- Router ---
	apiRouter := router.SetupRouter(&router.Config{
		AuthHandler:            authHandler,
		ItineraryHandler:       itineraryHandler,
		BookingHandler:         bookingHandler,
		ChatHandler:            chatHandler,
		SitesHandler:           sitesHandler,
		AdminHandler:           adminHandler,
		AuthenticateMiddleware: auth.Authenticate(logger, cfg.JWT),
	})

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(cfg.Server.Timeout))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", apiRouter)

	// --- HTTP server ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
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

	logger.Info("Application shut down complete.")
}

// setupLogger configures the application logger: colored logs during
// development, JSON elsewhere.
func setupLogger(mode string) *slog.Logger {
	var logger *slog.Logger

	if mode == "development" || mode == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
