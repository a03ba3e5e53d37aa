package shared

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLegacyFields(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
		expected    map[string]any
		expectErr   bool
	}{
		{
			name:        "json object",
			method:      http.MethodPost,
			target:      "/x",
			contentType: "application/json; charset=utf-8",
			body:        `{"__ac_name": "admin", "jsonData": {"title": "Rain"}, "count": 2}`,
			expected: map[string]any{
				"__ac_name": "admin",
				"jsonData":  map[string]any{"title": "Rain"},
				"count":     json.Number("2"),
			},
		},
		{
			name:        "empty json body",
			method:      http.MethodPost,
			target:      "/x?types=Institution",
			contentType: "application/json",
			body:        "",
			expected:    map[string]any{"types": "Institution"},
		},
		{
			name:        "json array is rejected",
			method:      http.MethodPost,
			target:      "/x",
			contentType: "application/json",
			body:        `["a"]`,
			expectErr:   true,
		},
		{
			name:        "malformed json",
			method:      http.MethodPost,
			target:      "/x",
			contentType: "application/json",
			body:        `{"a":`,
			expectErr:   true,
		},
		{
			name:        "form body wins over query",
			method:      http.MethodPost,
			target:      "/x?title=FromQuery&types=Institution",
			contentType: "application/x-www-form-urlencoded",
			body:        "title=SAEON+Institute&__ac_password=p%26w",
			expected: map[string]any{
				"title":         "SAEON Institute",
				"__ac_password": "p&w",
				"types":         "Institution",
			},
		},
		{
			name:     "query only on GET",
			method:   http.MethodGet,
			target:   "/x?user_id=alice|bob",
			expected: map[string]any{"user_id": "alice|bob"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}

			fields, err := DecodeLegacyFields(httptest.NewRecorder(), req)

			if tc.expectErr {
				assert.ErrorIs(t, err, ErrInvalidBody)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, fields)
		})
	}
}

func TestDecodeLegacyFields_Multipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("metadataType", "datacite"))
	require.NoError(t, mw.WriteField("jsonData", `{"a":1}`))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/x", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	fields, err := DecodeLegacyFields(httptest.NewRecorder(), req)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"metadataType": "datacite", "jsonData": `{"a":1}`}, fields)
}

func TestBaseURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://portal.example.org/Institutions/jsonContent", nil)
	assert.Equal(t, "http://portal.example.org", BaseURL(req, false))

	req.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://portal.example.org", BaseURL(req, false))

	req.Header.Set("X-Forwarded-Proto", "https, http")
	req.Header.Set("X-Forwarded-Host", "public.example.org")
	req.TLS = nil
	assert.Equal(t, "https://public.example.org", BaseURL(req, true))
}

func TestBaseURL_IgnoresForwardedHeadersUnlessTrusted(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://portal.example.org/Institutions/jsonContent", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "attacker.example.com")

	assert.Equal(t, "http://portal.example.org", BaseURL(req, false))
}

func TestBaseURL_RejectsUnknownForwardedScheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://portal.example.org/", nil)
	req.Header.Set("X-Forwarded-Proto", "javascript")

	assert.Equal(t, "http://portal.example.org", BaseURL(req, true))
}
