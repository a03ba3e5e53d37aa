package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "jsonapi_http_request_duration_seconds",
		Help: "Duration of HTTP requests.",
	}, []string{"route"})
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jsonapi_http_requests_total",
		Help: "Number of HTTP requests.",
	}, []string{"route", "method", "code"})
)

// unmatchedRoute labels requests no route matched, keeping label cardinality
// bounded.
const unmatchedRoute = "unmatched"

// Metrics records request counts and durations per route pattern.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	})
}
