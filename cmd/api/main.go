// Package main provides the entrypoint for the Wayline API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/wayline/wayline/internal/api"
	"github.com/wayline/wayline/internal/api/middleware"
	"github.com/wayline/wayline/internal/database"
	"github.com/wayline/wayline/internal/directions"
	directionsmaps "github.com/wayline/wayline/internal/directions/googlemaps"
	"github.com/wayline/wayline/internal/geocode"
	geocodemaps "github.com/wayline/wayline/internal/geocode/googlemaps"
	"github.com/wayline/wayline/internal/notify"
	"github.com/wayline/wayline/internal/notify/line"
	"github.com/wayline/wayline/internal/provider/resilience"
	"github.com/wayline/wayline/internal/route"
	"github.com/wayline/wayline/internal/sheets"
	"github.com/wayline/wayline/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "wayline-api"

	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Wayline API")

	// Get configuration from environment
	port := getEnvOrDefault("APP_PORT", "8080")
	env := getEnvOrDefault("APP_ENV", "development")
	otlpEndpoint := getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	mapsAPIKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	sheetsAPIKey := os.Getenv("SHEETS_API_KEY")
	lineToken := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Provider health registry feeding /v1/ops/status
	registry := resilience.NewRegistry()

	// Select the storage backend
	var routeRepo route.Repository
	var recipientRepo notify.RecipientRepository
	storeBackend := getEnvOrDefault("STORE_BACKEND", "memory")
	switch storeBackend {
	case "postgres":
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		routeRepo = route.NewPostgresRepository(pool)
		pgRecipients := notify.NewPostgresRecipientRepository(pool)
		for _, seed := range seedRecipients() {
			if err := pgRecipients.Create(ctx, &seed); err != nil {
				log.Warn().Err(err).Str("recipient", seed.Name).Msg("failed to seed recipient")
			}
		}
		recipientRepo = pgRecipients
	default:
		routeRepo = route.NewInMemoryRepository()
		recipientRepo = notify.NewInMemoryRecipientRepository(seedRecipients())
	}
	log.Info().Str("backend", storeBackend).Msg("store initialized")

	// Geocoding with per-stop fallback
	var geocoder geocode.Geocoder
	if mapsAPIKey != "" {
		geocoder = geocodemaps.NewClient(geocodemaps.ClientConfig{
			APIKey:   mapsAPIKey,
			Registry: registry,
			Logger:   log,
		})
	} else {
		log.Warn().Msg("GOOGLE_MAPS_API_KEY not set - geocoding runs in simulation mode")
	}
	geocodeService := geocode.NewService(geocode.ServiceConfig{
		Geocoder: geocoder,
		Logger:   log,
	})

	// Route optimization with fallback totals
	var directionsProvider directions.Provider
	if mapsAPIKey != "" {
		directionsProvider = directionsmaps.NewClient(directionsmaps.ClientConfig{
			APIKey:   mapsAPIKey,
			Registry: registry,
			Logger:   log,
		})
	} else {
		log.Warn().Msg("GOOGLE_MAPS_API_KEY not set - route optimization runs in simulation mode")
	}
	directionsService := directions.NewService(directions.ServiceConfig{
		Provider: directionsProvider,
		Logger:   log,
	})

	// Planner over the full pipeline
	planner := route.NewService(route.ServiceConfig{
		Repository: routeRepo,
		Geocoder:   geocodeService,
		Summarizer: directionsService,
		Logger:     log,
	})

	// LINE push client (simulation mode without a channel token)
	lineClient := line.NewClient(line.ClientConfig{
		ChannelAccessToken: lineToken,
		Registry:           registry,
		Logger:             log,
	})
	if lineClient.SimulationMode() {
		log.Warn().Msg("LINE_CHANNEL_ACCESS_TOKEN not set - pushes are simulated")
	}

	notifier := notify.NewService(notify.ServiceConfig{
		Routes:     routeRepo,
		Recipients: recipientRepo,
		Pusher:     lineClient,
		Logger:     log,
	})

	// Spreadsheet importer (503s without an API key)
	importer, err := sheets.NewImporter(ctx, sheetsAPIKey, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize sheets importer")
	}
	if !importer.Configured() {
		log.Warn().Msg("SHEETS_API_KEY not set - spreadsheet import disabled")
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		ServiceName:   serviceName,
		Metrics:       metrics,
		Registry:      registry,
		Planner:       planner,
		Notifier:      notifier,
		SheetImporter: importer,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// seedRecipients builds the initial recipient list from LINE_RECIPIENTS
// ("Name=LineUserID" pairs, comma separated). Without configuration a single
// placeholder recipient is seeded so the notification flow is exercisable in
// simulation mode.
func seedRecipients() []notify.Recipient {
	raw := os.Getenv("LINE_RECIPIENTS")
	if raw == "" {
		return []notify.Recipient{
			{ID: "rcp_default", Name: "預設通知對象", LineUserID: ""},
		}
	}

	var recipients []notify.Recipient
	for _, pair := range strings.Split(raw, ",") {
		name, lineUserID, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" {
			continue
		}
		recipients = append(recipients, notify.Recipient{
			ID:         "rcp_" + uuid.New().String()[:22],
			Name:       name,
			LineUserID: lineUserID,
		})
	}
	return recipients
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
