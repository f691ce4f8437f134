// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

// Package main is the entry point for the Filmdash API server.
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Database: DuckDB holding the movie star schema
//  4. ETL runner: CSV to star schema, clears the dataset cache on success
//  5. WebSocket hub: streams per-table ETL progress to dashboard clients
//  6. HTTP server: Chi router with dashboard, ETL, health and metrics routes
//
// The HTTP server, the websocket hub and the optional startup ETL run are
// supervised by a suture tree. SIGINT and SIGTERM trigger a graceful shutdown.
//
// # Example Usage
//
//	export MOVIES_CSV_PATH=data/movies.csv
//	export ETL_ON_STARTUP=true
//	./filmdash
//	curl -X POST localhost:8501/api/v1/etl/run
//	curl 'localhost:8501/api/v1/dashboard?year_min=2000&rating_min=7'
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/filmdash/internal/api"
	"github.com/tomtom215/filmdash/internal/config"
	"github.com/tomtom215/filmdash/internal/database"
	"github.com/tomtom215/filmdash/internal/etl"
	"github.com/tomtom215/filmdash/internal/logging"
	"github.com/tomtom215/filmdash/internal/supervisor"
	"github.com/tomtom215/filmdash/internal/supervisor/services"
	ws "github.com/tomtom215/filmdash/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", api.Version).
		Str("source", cfg.Source.CSVPath).
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Filmdash")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	runner := etl.NewRunner(cfg.Source.CSVPath, db)
	handler := api.NewHandler(db, runner, cfg)
	runner.OnComplete(handler.OnETLComplete)

	hub := ws.NewHub()
	handler.SetWSHub(hub)
	runner.OnTable(hub.BroadcastTable)
	runner.OnComplete(hub.BroadcastRun)
	runner.OnFailure(hub.BroadcastRun)

	router := api.NewRouter(handler, &cfg.Security)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: shutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Source.ETLOnStartup {
		tree.AddETLService(services.NewStartupETLService(runner))
		logging.Info().Msg("Startup ETL run scheduled")
	}
	tree.AddAPIService(hub)
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, shutdownTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Filmdash stopped")
}
