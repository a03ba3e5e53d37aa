package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets up environment variables for testing
func setupEnv(t *testing.T, envVars map[string]string) func() {
	// Save current environment values
	originalValues := make(map[string]string)
	for name := range envVars {
		originalValues[name] = os.Getenv(name)
	}

	for name, value := range envVars {
		err := os.Setenv(name, value)
		require.NoError(t, err, "Failed to set environment variable %s", name)
	}

	return func() {
		for name, value := range originalValues {
			if value == "" {
				os.Unsetenv(name)
			} else {
				os.Setenv(name, value)
			}
		}
	}
}

// TestLoadDefaults verifies that Load fills in defaults when only the
// required backend URL is provided.
func TestLoadDefaults(t *testing.T) {
	cleanup := setupEnv(t, map[string]string{
		"JSONAPI_CKAN_URL":           "http://ckan.example.org/",
		"JSONAPI_SERVER_PORT":        "",
		"JSONAPI_SERVER_LOG_LEVEL":   "",
		"JSONAPI_CKAN_FIELD_VERSION": "",
		"JSONAPI_AUTH_MODE":          "",
	})
	defer cleanup()

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg, "Load() should return a non-nil config")
	assert.Equal(t, 8080, cfg.Server.Port, "Default server port should be 8080")
	assert.Equal(t, "info", cfg.Server.LogLevel, "Default log level should be 'info'")
	assert.False(t, cfg.Server.TrustProxyHeaders, "Forwarded headers should not be trusted by default")
	assert.Equal(t, "metadata", cfg.CKAN.FieldVersion)
	assert.Equal(t, 30, cfg.CKAN.TimeoutSeconds)
	assert.Equal(t, AuthModeStatic, cfg.Auth.Mode)
	assert.Equal(t, "http://ckan.example.org", cfg.CKAN.URL, "Trailing slash should be trimmed")
}

// TestLoadFromEnv verifies that the Load function correctly reads values from environment variables.
func TestLoadFromEnv(t *testing.T) {
	cleanup := setupEnv(t, map[string]string{
		"JSONAPI_SERVER_PORT":                "9090",
		"JSONAPI_SERVER_LOG_LEVEL":           "debug",
		"JSONAPI_SERVER_TRUST_PROXY_HEADERS": "true",
		"JSONAPI_CKAN_URL":                   "https://ckan.example.org",
		"JSONAPI_CKAN_API_KEY":               "static-key",
		"JSONAPI_CKAN_FIELD_VERSION":         "content",
		"JSONAPI_CKAN_TIMEOUT_SECONDS":       "5",
		"JSONAPI_AUTH_MODE":                  "token",
		"JSONAPI_AUTH_TOKEN_SECRET":          "thisisasecretkeythatis32charslong!!",
	})
	defer cleanup()

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with valid environment variables")
	require.NotNil(t, cfg)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.True(t, cfg.Server.TrustProxyHeaders)
	assert.Equal(t, "https://ckan.example.org", cfg.CKAN.URL)
	assert.Equal(t, "static-key", cfg.CKAN.APIKey)
	assert.Equal(t, "content", cfg.CKAN.FieldVersion)
	assert.Equal(t, 5, cfg.CKAN.TimeoutSeconds)
	assert.Equal(t, AuthModeToken, cfg.Auth.Mode)
	assert.Equal(t, "thisisasecretkeythatis32charslong!!", cfg.Auth.TokenSecret)
}

// TestLoadValidationErrors verifies that the Load function correctly validates the configuration.
func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name: "Missing backend URL",
			envVars: map[string]string{
				"JSONAPI_CKAN_URL": "",
			},
		},
		{
			name: "Invalid port number",
			envVars: map[string]string{
				"JSONAPI_CKAN_URL":    "http://ckan.example.org",
				"JSONAPI_SERVER_PORT": "999999",
			},
		},
		{
			name: "Invalid log level",
			envVars: map[string]string{
				"JSONAPI_CKAN_URL":         "http://ckan.example.org",
				"JSONAPI_SERVER_LOG_LEVEL": "invalid-level",
			},
		},
		{
			name: "Unknown field version",
			envVars: map[string]string{
				"JSONAPI_CKAN_URL":           "http://ckan.example.org",
				"JSONAPI_CKAN_FIELD_VERSION": "v3",
			},
		},
		{
			name: "Credentials mode without file",
			envVars: map[string]string{
				"JSONAPI_CKAN_URL":  "http://ckan.example.org",
				"JSONAPI_AUTH_MODE": "credentials",
			},
		},
		{
			name: "Token mode without secret",
			envVars: map[string]string{
				"JSONAPI_CKAN_URL":  "http://ckan.example.org",
				"JSONAPI_AUTH_MODE": "token",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cleanup := setupEnv(t, tc.envVars)
			defer cleanup()

			cfg, err := Load()

			require.Error(t, err, "Load() should return an error with invalid configuration")
			assert.Contains(t, err.Error(), "validation failed")
			assert.Nil(t, cfg, "Config should be nil when an error occurs")
		})
	}
}
