package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
)

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// PingerFunc adapts a function to the Pinger interface.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks map[string]Pinger
	logger logging.Logger
}

func NewHealthHandler(log logging.Logger) *HealthHandler {
	return &HealthHandler{
		checks: map[string]Pinger{},
		logger: log.Named("http.health"),
	}
}

// Register adds a named dependency to the readiness probe.
func (h *HealthHandler) Register(name string, p Pinger) {
	h.checks[name] = p
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Liveness handles GET /healthz.  It only asserts the process is serving.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// Readiness handles GET /readyz.  Every registered dependency must answer
// within the probe deadline.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK

	for name, check := range h.checks {
		if err := check.HealthCheck(ctx); err != nil {
			h.logger.Warn("readiness check failed",
				logging.String("dependency", name),
				logging.Err(err),
			)
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, status, resp)
}
