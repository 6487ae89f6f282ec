package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"palettefolio/internal/handlers"
	applog "palettefolio/internal/log"
	"palettefolio/internal/metrics"
)

func newRouter(api *handlers.API, m *metrics.Metrics, healthCheck func(context.Context) error) http.Handler {
	r := chi.NewRouter()
	applog.Debug(context.Background(), "registering http routes")

	r.Use(middleware.RequestID)
	r.Use(handlers.WithRequestLogging)
	r.Use(middleware.Recoverer)
	r.Use(m.WithMetrics)

	r.Get("/healthz", handlers.Health(healthCheck))
	r.Method(http.MethodGet, "/metrics", m.Handler())
	api.Register(r)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"route not found"}` + "\n"))
	})

	applog.Debug(context.Background(), "routes registered")
	return r
}
