// Package api provides the HTTP API for Wayline.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/wayline/wayline/internal/api/handler"
	"github.com/wayline/wayline/internal/api/middleware"
	"github.com/wayline/wayline/internal/notify"
	"github.com/wayline/wayline/internal/provider/resilience"
	"github.com/wayline/wayline/internal/route"
	"github.com/wayline/wayline/internal/sheets"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version       string
	BuildTime     string
	Logger        zerolog.Logger
	ServiceName   string
	Metrics       *middleware.Metrics
	Registry      *resilience.Registry
	Planner       *route.Service
	Notifier      *notify.Service
	SheetImporter *sheets.Importer
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "wayline-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry)
	routeHandler := handler.NewRouteHandler(cfg.Planner, cfg.SheetImporter, cfg.Logger)
	notificationHandler := handler.NewNotificationHandler(cfg.Notifier, cfg.Logger)

	// Rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Route history
		r.Route("/routes", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", routeHandler.ListRoutes)
			r.Get("/{routeId}", routeHandler.GetRoute)
		})

		// Planning endpoints fan out to external providers - strict limits.
		// The upload endpoint takes CSV bodies, so RequireJSON stays off it.
		r.With(expensiveRateLimit, middleware.RequireJSON).Post("/routes:plan", routeHandler.PlanRoute)
		r.With(expensiveRateLimit).Post("/routes:upload", routeHandler.UploadRoute)
		r.With(expensiveRateLimit, middleware.RequireJSON).Post("/routes:import-sheet", routeHandler.ImportSheet)

		// Notifications and recipients
		r.With(standardRateLimit, middleware.RequireJSON).Post("/notifications", notificationHandler.SendNotification)
		r.With(standardRateLimit).Get("/recipients", notificationHandler.ListRecipients)

		// LINE platform webhook
		r.Route("/line-webhook", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", notificationHandler.WebhookStatus)
			r.Post("/", notificationHandler.Webhook)
		})
	})

	return r
}
