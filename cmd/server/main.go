// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

// Package main is the entry point for the Confit server.
//
// Confit is a recipe-sharing backend: accounts, recipes with nested
// ingredients, cook stages and tags, comments, and up/down grading of
// recipes and comments, served as a JSON REST API over PostgreSQL.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, config file, then environment (Koanf v2)
//  2. Logging: zerolog global logger per the configured level and format
//  3. Database: PostgreSQL connection pool (pgx) and schema bootstrap
//  4. Media store: upload directories and default image substitution
//  5. Authentication: JWT manager and bcrypt password hasher
//  6. HTTP server: chi router with the REST API, /media files, /metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables with the CONFIT_ prefix
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// Required settings:
//   - CONFIT_JWT_SECRET: 32+ character secret for token signing
//   - CONFIT_DATABASE_URL or the discrete CONFIT_DATABASE_* fields
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits for in-flight requests up to the
// configured shutdown timeout, then closes the database pool.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/tomtom215/confit/internal/api"
	"github.com/tomtom215/confit/internal/auth"
	"github.com/tomtom215/confit/internal/config"
	"github.com/tomtom215/confit/internal/database"
	"github.com/tomtom215/confit/internal/logging"
	"github.com/tomtom215/confit/internal/media"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logging.Info().Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).Msg("Starting Confit server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	mediaStore, err := media.NewStore(cfg.Media.Root, cfg.Media.MaxUploadBytes)
	if err != nil {
		return fmt.Errorf("failed to initialize media store: %w", err)
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT manager: %w", err)
	}
	hasher := auth.NewHasher(cfg.Security.BcryptCost)

	handler := api.NewHandler(store, mediaStore, jwtManager, hasher, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.NewRouter(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
		return err
	}

	logging.Info().Msg("Server stopped")
	return nil
}
