package main

import (
	"fmt"
	"log/slog"

	"github.com/saeondata/jsonapi-facade/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"ckan_url", cfg.CKAN.URL,
		"field_version", cfg.CKAN.FieldVersion,
		"auth_mode", cfg.Auth.Mode)

	if cfg.CKAN.APIKey != "" {
		slog.Debug("CKAN configuration", "api_key_present", true)
	}

	return cfg, nil
}
