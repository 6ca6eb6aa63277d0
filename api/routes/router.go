package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-configurator/api/controllers"
	"github.com/angelmondragon/storefront-configurator/api/middleware"
	"github.com/angelmondragon/storefront-configurator/internal/editsessions"
	"github.com/angelmondragon/storefront-configurator/pkg/config"
	"github.com/angelmondragon/storefront-configurator/pkg/db"
	"github.com/angelmondragon/storefront-configurator/pkg/logger"
	"github.com/angelmondragon/storefront-configurator/pkg/metrics"
	"github.com/angelmondragon/storefront-configurator/pkg/redis"
)

// NewRouter wires the HTTP surface. gatherer serves /metrics and httpMetrics observes every
// routed request; either may be nil.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	sessionService editsessions.Service,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    dbP,
			"redis": redisP,
		}))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/product-sessions", func(r chi.Router) {
		r.Post("/", controllers.SessionOpen(sessionService, logg))
		r.Get("/operations", controllers.SessionOperations())

		r.Route("/{"+middleware.SessionIDParam+"}", func(r chi.Router) {
			r.Use(middleware.SessionContext(logg))
			r.Get("/", controllers.SessionGet(sessionService, logg))
			r.Delete("/", controllers.SessionCancel(sessionService, logg))
			r.Post("/commands", controllers.SessionCommand(sessionService, cfg.HTTP.MaxBodyBytes, logg))
			r.Get("/value-removal", controllers.SessionValueRemoval(sessionService, logg))
			r.Post("/submit", controllers.SessionSubmit(sessionService, logg))
		})
	})

	return r
}
