package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/storewatch/internal/config"
	"github.com/heartmarshall/storewatch/internal/transport/middleware"
)

// Handlers groups what the router mounts. Admin and GraphQL may be nil.
type Handlers struct {
	Webhook *WebhookHandler
	Health  *HealthHandler
	Admin   *AdminHandler
	GraphQL http.Handler
}

// NewRouter builds the HTTP surface: webhook intake, probes, metrics and,
// when an admin token is configured, the operator endpoints.
func NewRouter(h Handlers, cfg config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Ingress(logger))

	r.Get("/live", h.Health.Live)
	r.Get("/ready", h.Health.Ready)
	r.Get("/health", h.Health.Health)

	if cfg.Server.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.With(middleware.RateLimit(cfg.Webhook.RateLimit)).
		Post("/webhooks", h.Webhook.ServeHTTP)

	if h.Admin != nil && cfg.Server.AdminToken != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminToken(cfg.Server.AdminToken))
			r.Get("/queue/stats", h.Admin.QueueStats)
			r.Get("/events", h.Admin.Events)
			if h.GraphQL != nil {
				r.Handle("/graphql", h.GraphQL)
			}
		})
	}

	return r
}
