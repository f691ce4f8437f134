// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

// Command filmdash-etl runs the movie CSV ETL outside the server.
//
//	filmdash-etl run --source data/movies.csv --db data/filmdash.duckdb
//	filmdash-etl inspect --source data/movies.csv
//	filmdash-etl status --db data/filmdash.duckdb
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
