// Package api provides the operational HTTP surface: liveness and
// readiness probes plus the Prometheus metrics endpoint. The MCP tool
// surface is served separately; nothing here accepts send requests.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter creates a chi.Mux with the operational endpoints and
// middleware configured.
func NewRouter(log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(CorrelationIDMiddleware)
	r.Use(LoggingMiddleware(log))
	r.Use(RecoverMiddleware(log))

	r.Get("/healthz", HealthzHandler())
	r.Get("/readyz", ReadyzHandler())
	r.Handle("/metrics", promhttp.Handler())

	return r
}
