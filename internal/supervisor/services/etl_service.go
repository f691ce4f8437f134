// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package services

import (
	"context"
	"errors"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/filmdash/internal/etl"
	"github.com/tomtom215/filmdash/internal/logging"
)

// ETLRunner is the part of *etl.Runner the service drives.
type ETLRunner interface {
	Run(ctx context.Context) (*etl.RunStats, error)
}

// StartupETLService runs the ETL once when the tree starts. A failed run is
// logged and not retried; the server keeps serving whatever the tables
// already hold.
type StartupETLService struct {
	runner ETLRunner
}

// NewStartupETLService creates the service.
func NewStartupETLService(runner ETLRunner) *StartupETLService {
	return &StartupETLService{runner: runner}
}

// Serve implements suture.Service. It always returns suture.ErrDoNotRestart
// unless ctx was canceled during the run.
func (s *StartupETLService) Serve(ctx context.Context) error {
	stats, err := s.runner.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	switch {
	case errors.Is(err, etl.ErrRunInProgress):
		logging.Info().Msg("Startup ETL skipped, a run is already in progress")
	case err != nil:
		logging.Error().Err(err).Msg("Startup ETL run failed")
	default:
		logging.Info().
			Str("run_id", stats.RunID).
			Int("rows_loaded", stats.RowsLoaded()).
			Dur("duration", stats.Duration()).
			Msg("Startup ETL run completed")
	}
	return suture.ErrDoNotRestart
}

// String names the service in supervisor logs.
func (s *StartupETLService) String() string {
	return "startup-etl"
}
