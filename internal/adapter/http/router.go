package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/aungmyo/shwebook/internal/adapter/http/handler"
	"github.com/aungmyo/shwebook/internal/adapter/http/middleware"
	"github.com/aungmyo/shwebook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	Logger             zerolog.Logger
	SessionHandler     *handler.SessionHandler
	TransactionHandler *handler.TransactionHandler
	SettingsHandler    *handler.SettingsHandler
	AnalyticsHandler   *handler.AnalyticsHandler
	BackupHandler      *handler.BackupHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Session
		r.Route("/session", func(r chi.Router) {
			r.Get("/", cfg.SessionHandler.Get)
			r.Post("/signin", cfg.SessionHandler.SignIn)
			r.Post("/signout", cfg.SessionHandler.SignOut)
		})

		// Ledger
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", cfg.TransactionHandler.List)
			r.Post("/", cfg.TransactionHandler.Create)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
		})

		// Settings
		r.Route("/rates", func(r chi.Router) {
			r.Get("/", cfg.SettingsHandler.GetRates)
			r.Put("/", cfg.SettingsHandler.UpdateRates)
		})
		r.Route("/calculator", func(r chi.Router) {
			r.Get("/", cfg.SettingsHandler.GetCalculator)
			r.Put("/", cfg.SettingsHandler.UpdateCalculator)
		})
		r.Route("/theme", func(r chi.Router) {
			r.Get("/", cfg.SettingsHandler.GetTheme)
			r.Put("/", cfg.SettingsHandler.SetTheme)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/series", cfg.AnalyticsHandler.Series)
			r.Get("/categories", cfg.AnalyticsHandler.Categories)
			r.Get("/years", cfg.AnalyticsHandler.Years)
			r.Get("/summary", cfg.AnalyticsHandler.Totals)
		})

		// Backup
		r.Route("/backup", func(r chi.Router) {
			r.Get("/export", cfg.BackupHandler.Export)
			r.Post("/import", cfg.BackupHandler.Import)
		})
	})

	return r
}
