package middleware

import (
	"net/http"
	"strings"
)

// CORSOptions lists the values sent in cross-origin headers.
type CORSOptions struct {
	AllowedOrigin  string
	AllowedMethods []string
	AllowedHeaders []string
}

// DefaultCORSOptions are the headers legacy browser clients expect.
var DefaultCORSOptions = CORSOptions{
	AllowedOrigin:  "*",
	AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	AllowedHeaders: []string{"Content-Type"},
}

// NewCORSMiddleware sets cross-origin headers on every response and answers
// OPTIONS requests itself, with an empty body, before anything downstream runs.
func NewCORSMiddleware(opts CORSOptions) func(http.Handler) http.Handler {
	methods := strings.Join(opts.AllowedMethods, ", ")
	headers := strings.Join(opts.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", opts.AllowedOrigin)
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
