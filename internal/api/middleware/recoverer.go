package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/saeondata/jsonapi-facade/internal/api/shared"
	"github.com/saeondata/jsonapi-facade/internal/platform/logger"
	"github.com/saeondata/jsonapi-facade/internal/translate"
)

// NewRecoverer recovers panics from downstream handlers, logs them with a
// stack trace and answers with the legacy failure envelope. It takes the
// place of chi's Recoverer, which writes a bare 500.
func NewRecoverer(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// Aborted responses must keep unwinding so net/http drops the connection.
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.FromContextOrDefault(r.Context(), base).Error("panic while serving request",
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())))

				if r.Header.Get("Connection") == "Upgrade" {
					return
				}
				shared.RespondWithJSON(w, r, http.StatusInternalServerError, translate.Failed{
					Status: translate.StatusFailed,
					Msg:    translate.MsgServerError,
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
