package middleware

import (
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/saeondata/jsonapi-facade/internal/api/shared"
	"github.com/saeondata/jsonapi-facade/internal/platform/logger"
)

// TraceHeader carries the trace ID back to the caller.
const TraceHeader = "X-Trace-ID"

// NewTraceMiddleware adds a trace ID to the request context and stores a
// logger tagged with it, so every log line for the request can be correlated.
// Apply it early in the chain, after chi's RequestID.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			log := base.With(slog.String("trace_id", traceID))
			if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
				log = log.With(slog.String("request_id", reqID))
			}
			ctx = logger.WithContext(ctx, log)

			w.Header().Set(TraceHeader, traceID)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
