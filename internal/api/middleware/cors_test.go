package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		expectedStatus int
		expectedBody   string
		expectNext     bool
	}{
		{
			name:           "preflight answered without reaching handler",
			method:         http.MethodOptions,
			expectedStatus: http.StatusOK,
			expectedBody:   "",
			expectNext:     false,
		},
		{
			name:           "get passes through",
			method:         http.MethodGet,
			expectedStatus: http.StatusTeapot,
			expectedBody:   "next",
			expectNext:     true,
		},
		{
			name:           "post passes through",
			method:         http.MethodPost,
			expectedStatus: http.StatusTeapot,
			expectedBody:   "next",
			expectNext:     true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusTeapot)
				_, _ = w.Write([]byte("next"))
			})

			handler := NewCORSMiddleware(DefaultCORSOptions)(next)
			req := httptest.NewRequest(tt.method, "/Institutions/jsonContent", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedBody, rr.Body.String())
			assert.Equal(t, tt.expectNext, called)
			assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type", rr.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}
