package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/saeondata/jsonapi-facade/internal/platform/logger"
	"github.com/saeondata/jsonapi-facade/internal/translate"
)

// RespondWithJSON writes a JSON response with the given status code and data.
// Bodies are indented the way legacy clients have always received them.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithTranslation writes a translator response.
func RespondWithTranslation(w http.ResponseWriter, r *http.Request, resp translate.Response) {
	RespondWithJSON(w, r, resp.StatusCode, resp.Body)
}

// RespondWithFailure writes a failure envelope carrying message.
func RespondWithFailure(w http.ResponseWriter, r *http.Request, status int, message string) {
	logger.FromContext(r.Context()).Debug("sending failure response",
		slog.Int("status_code", status),
		slog.String("message", message),
		slog.String("trace_id", GetTraceID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method))

	RespondWithJSON(w, r, status, translate.Failed{
		Status: translate.StatusFailed,
		Msg:    message,
	})
}
