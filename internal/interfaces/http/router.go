package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/prometheus"
	"github.com/m0th3rfkr/ejecucion-publica/internal/interfaces/http/handlers"
	"github.com/m0th3rfkr/ejecucion-publica/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies required
// to construct the complete HTTP route tree.
type RouterConfig struct {
	LookupHandler *handlers.LookupHandler
	HealthHandler *handlers.HealthHandler

	Logger           logging.Logger
	Metrics          *prometheus.LookupMetrics
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter wires global middleware, health probes, the metrics endpoint,
// and the v1 API group into a single http.Handler.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	// Exposed unauthenticated; the service runs behind the internal network
	// boundary.
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.LookupHandler != nil {
			api.Post("/lookups", cfg.LookupHandler.Lookup)
			api.Get("/territories", cfg.LookupHandler.Territories)
		}
	})

	return r
}
