// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

// Package main is the entry point for the scaled server.
//
// scaled exposes the scalekit scaling models over a REST API. Clients
// create a model with a scaler type (min_max, max_abs, mean, standard,
// pca, zca), fit it on a dataset, then transform or inverse-transform
// further data. Fitted models persist to a gob-encoded on-disk store.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables with the SCALEKIT_ prefix
//   - Config file (scalekit.yaml, or SCALEKIT_CONFIG)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, then waits for in-flight requests to
// complete up to the configured shutdown timeout.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mfaltys/scalekit/internal/api"
	"github.com/mfaltys/scalekit/internal/config"
	"github.com/mfaltys/scalekit/internal/logging"
	"github.com/mfaltys/scalekit/internal/storage"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("storage_dir", cfg.Storage.Dir).
		Int("min_value", cfg.Scaling.MinValue).
		Int("max_value", cfg.Scaling.MaxValue).
		Float64("epsilon", cfg.Scaling.Epsilon).
		Msg("Configuration loaded")

	store, err := storage.NewStore(cfg.Storage.Dir)
	if err != nil {
		logging.Fatal().Err(err).Str("dir", cfg.Storage.Dir).Msg("Failed to initialize model store")
	}

	handler := api.NewHandler(api.NewRegistry(), store, api.Defaults{
		MinValue: cfg.Scaling.MinValue,
		MaxValue: cfg.Scaling.MaxValue,
		Epsilon:  cfg.Scaling.Epsilon,
	})

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(handler, api.RouterConfig{
			RateLimit:       cfg.Server.RateLimit,
			RateLimitWindow: cfg.Server.RateLimitWindow,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("Starting scaled server")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Server error")
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
		if err := server.Close(); err != nil {
			logging.Error().Err(err).Msg("Forced close failed")
		}
	}
	logging.Info().Msg("Server stopped")
}
