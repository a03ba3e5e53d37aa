// Package main implements the entry point for the legacy JSON API facade,
// which serves the old institution, metadata and user endpoints on top of a
// CKAN action API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadAppConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	app, err := newApplication(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("Application stopped with error", "error", err)
		os.Exit(1)
	}
}
