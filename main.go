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
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/wanderly-ai/wanderly-backend/app/db"
	appLogger "github.com/wanderly-ai/wanderly-backend/app/logger"
	"github.com/wanderly-ai/wanderly-backend/app/tracer"
	"github.com/wanderly-ai/wanderly-backend/config"
	"github.com/wanderly-ai/wanderly-backend/internal/api/completions"
	"github.com/wanderly-ai/wanderly-backend/internal/api/hotels"
	"github.com/wanderly-ai/wanderly-backend/internal/api/places"
	"github.com/wanderly-ai/wanderly-backend/internal/api/placesearch"
	"github.com/wanderly-ai/wanderly-backend/internal/api/tripplan"
	"github.com/wanderly-ai/wanderly-backend/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
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

	metricsHandler, err := tracer.Init("wanderly-backend")
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Database ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}
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

	// --- Completion gateway ---
	// A missing key is not fatal: the planning services answer with
	// deterministic mock data instead.
	client := buildCompletionClient(ctx, cfg, logger)
	if client == nil {
		logger.Warn("No completion provider configured, serving mock plans")
	}

	googleClient := placesearch.NewGoogleClient(cfg.Google.PlacesAPIKey, logger)
	if !googleClient.Configured() {
		logger.Warn("No Google Places API key configured, place search disabled")
	}

	// --- Services and handlers ---
	tripService := tripplan.NewServiceImpl(client, tripplan.DefaultConfig(), logger)
	hotelService := hotels.NewServiceImpl(client, hotels.DefaultConfig(), logger)
	placeService := places.NewServiceImpl(places.NewPlaceRepository(pool, logger), logger)
	searchService := placesearch.NewServiceImpl(googleClient, client, placesearch.DefaultConfig(), logger)

	mainRouter := router.SetupRouter(&router.Config{
		TripPlanHandler:    tripplan.NewTripPlanHandler(tripService, logger),
		HotelHandler:       hotels.NewHotelHandler(hotelService, logger),
		PlaceHandler:       places.NewPlaceHandler(placeService, logger),
		PlaceSearchHandler: placesearch.NewPlaceSearchHandler(searchService, googleClient, logger),
		MetricsHandler:     metricsHandler,
		Pool:               pool,
	})

	timeout := cfg.Server.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5, "application/json"))
	r.Mount("/", mainRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: timeout + 5*time.Second,
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

// buildCompletionClient picks the gateway backend from config. Groq is the
// default: an OpenAI-compatible endpoint with its own base URL.
func buildCompletionClient(ctx context.Context, cfg config.Config, logger *slog.Logger) completions.Client {
	timeout := cfg.LLM.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	switch strings.ToLower(cfg.LLM.Provider) {
	case "gemini":
		client, err := completions.NewGeminiClient(ctx, cfg.LLM.GeminiAPIKey, logger)
		if err != nil {
			logger.Warn("Gemini client unavailable", slog.Any("error", err))
			return nil
		}
		return client
	case "openai":
		client, err := completions.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, timeout, logger)
		if err != nil {
			logger.Warn("OpenAI client unavailable", slog.Any("error", err))
			return nil
		}
		return client
	default: // groq
		baseURL := cfg.LLM.BaseURL
		if baseURL == "" {
			baseURL = completions.DefaultGroqBaseURL
		}
		client, err := completions.NewOpenAIClient(cfg.LLM.APIKey, baseURL, timeout, logger)
		if err != nil {
			logger.Warn("Groq client unavailable", slog.Any("error", err))
			return nil
		}
		return client
	}
}

// setupLogger configures the application logger: colored tint output in
// development, JSON elsewhere.
func setupLogger(mode string) *slog.Logger {
	if mode == "development" || mode == "" {
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
