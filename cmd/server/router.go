package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/saeondata/jsonapi-facade/internal/api"
	apiMiddleware "github.com/saeondata/jsonapi-facade/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	return newRouter(app, api.NewLegacyHandler(app.translator, app.config.Server.TrustProxyHeaders))
}

func newRouter(app *application, legacy *api.LegacyHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewRecoverer(app.logger))
	// CORS answers preflights before anything else touches the request.
	r.Use(apiMiddleware.NewCORSMiddleware(apiMiddleware.DefaultCORSOptions))
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.Metrics)

	legacy.Routes(r)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
