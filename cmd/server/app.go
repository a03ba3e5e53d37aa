package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saeondata/jsonapi-facade/internal/auth"
	"github.com/saeondata/jsonapi-facade/internal/config"
	"github.com/saeondata/jsonapi-facade/internal/platform/ckan"
	"github.com/saeondata/jsonapi-facade/internal/translate"
)

// application holds the shared dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger

	ckanClient *ckan.Client
	translator *translate.Translator
}

// newApplication wires the authenticator, backend client and translator.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	authenticator, err := auth.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authenticator: %w", err)
	}
	logger.Info("Authenticator initialized", "mode", cfg.Auth.Mode)

	client, err := ckan.NewClient(cfg.CKAN, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize CKAN client: %w", err)
	}

	version, err := translate.ParseFieldVersion(cfg.CKAN.FieldVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid field version: %w", err)
	}

	translator, err := translate.NewTranslator(client, authenticator, translate.Options{
		BackendURL:   client.BaseURL(),
		FieldVersion: version,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}

	logger.Info("Application initialized successfully")
	return &application{
		config:     cfg,
		logger:     logger,
		ckanClient: client,
		translator: translator,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
