package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gatekeeper/internal/platform/middleware"
)

// NewRouter wires the webhook endpoint, liveness probe, and metrics.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))

	r.Get("/", h.handleLiveness)
	r.Post("/", h.handleUpdate)
	r.Handle("/metrics", promhttp.Handler())
	r.MethodNotAllowed(h.handleListening)

	return r
}
