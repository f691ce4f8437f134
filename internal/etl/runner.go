// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package etl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/filmdash/internal/logging"
	"github.com/tomtom215/filmdash/internal/metrics"
	"github.com/tomtom215/filmdash/internal/models"
)

// ErrRunInProgress is returned when Run is called while another run is active.
var ErrRunInProgress = errors.New("etl run already in progress")

// Loader replaces one star-schema table. Implementations must make each
// call atomic for its table; nothing is expected across tables.
type Loader interface {
	ReplaceTable(ctx context.Context, table *models.Table) error
}

// Runner orchestrates extract, normalize and load.
type Runner struct {
	sourcePath string
	loader     Loader

	mu         sync.Mutex
	running    bool
	last       *RunStats
	onTable    []func(models.TableResult)
	onComplete []func(context.Context, *RunStats)
	onFailure  []func(context.Context, *RunStats)
}

// NewRunner creates a runner reading sourcePath and writing through loader.
func NewRunner(sourcePath string, loader Loader) *Runner {
	return &Runner{
		sourcePath: sourcePath,
		loader:     loader,
	}
}

// SourcePath returns the CSV path the runner reads.
func (r *Runner) SourcePath() string {
	return r.sourcePath
}

// OnTable registers fn to be called after each table is replaced.
func (r *Runner) OnTable(fn func(models.TableResult)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onTable = append(r.onTable, fn)
}

// OnComplete registers fn to be called after every successful run.
func (r *Runner) OnComplete(fn func(context.Context, *RunStats)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onComplete = append(r.onComplete, fn)
}

// OnFailure registers fn to be called after every failed run. It is not
// called when Run returns ErrRunInProgress.
func (r *Runner) OnFailure(fn func(context.Context, *RunStats)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onFailure = append(r.onFailure, fn)
}

// Running reports whether a run is in progress.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// LastRun returns a copy of the most recent run's stats, or nil.
func (r *Runner) LastRun() *RunStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return nil
	}
	return r.last.clone()
}

func (r *Runner) begin(dryRun bool) (*RunStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return nil, ErrRunInProgress
	}
	r.running = true
	r.last = &RunStats{
		RunID:      uuid.New().String(),
		SourcePath: r.sourcePath,
		StartTime:  time.Now(),
		Status:     StatusRunning,
		DryRun:     dryRun,
	}
	return r.last, nil
}

func (r *Runner) finish(stats *RunStats, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats.EndTime = time.Now()
	if err != nil {
		stats.Status = StatusFailed
		stats.Err = err
	} else {
		stats.Status = StatusCompleted
	}
	r.running = false
}

// Run extracts the CSV, normalizes it and replaces every table in load
// order. If the source cannot be read nothing is written. If a table fails
// the run stops there; tables replaced before it keep their new contents.
func (r *Runner) Run(ctx context.Context) (*RunStats, error) {
	stats, err := r.begin(false)
	if err != nil {
		return nil, err
	}
	ctx = logging.ContextWithRunID(ctx, stats.RunID)
	log := logging.Ctx(ctx)

	log.Info().Str("source", r.sourcePath).Msg("ETL run started")

	err = r.run(ctx, stats)
	r.finish(stats, err)
	metrics.RecordETLRun(stats.Duration(), err)

	if err != nil {
		log.Error().Err(err).
			Int("tables_replaced", len(stats.Tables)).
			Dur("duration", stats.Duration()).
			Msg("ETL run failed")
		r.mu.Lock()
		failHooks := append([]func(context.Context, *RunStats)(nil), r.onFailure...)
		r.mu.Unlock()
		result := r.LastRun()
		for _, fn := range failHooks {
			fn(ctx, result)
		}
		return result, err
	}

	log.Info().
		Int("source_rows", stats.SourceRows).
		Int("rows_loaded", stats.RowsLoaded()).
		Dur("duration", stats.Duration()).
		Msg("ETL run completed")

	r.mu.Lock()
	hooks := append([]func(context.Context, *RunStats)(nil), r.onComplete...)
	r.mu.Unlock()
	result := r.LastRun()
	for _, fn := range hooks {
		fn(ctx, result)
	}

	return result, nil
}

func (r *Runner) run(ctx context.Context, stats *RunStats) error {
	src, err := ReadSource(r.sourcePath)
	if err != nil {
		return err
	}
	r.mu.Lock()
	stats.SourceRows = len(src.Records)
	r.mu.Unlock()

	ts := Normalize(src.Records)
	logNormalized(ctx, ts)

	for _, table := range ts.Tables() {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		if err := r.loader.ReplaceTable(ctx, table); err != nil {
			return fmt.Errorf("replace table %s: %w", table.Name, err)
		}

		result := models.TableResult{
			Table:      table.Name,
			Rows:       len(table.Rows),
			DurationMS: time.Since(start).Milliseconds(),
		}
		r.mu.Lock()
		stats.Tables = append(stats.Tables, result)
		reporters := append([]func(models.TableResult)(nil), r.onTable...)
		r.mu.Unlock()

		metrics.RecordTableLoaded(table.Name, result.Rows)
		logging.Ctx(ctx).Info().
			Str("table", table.Name).
			Int("rows", result.Rows).
			Int64("duration_ms", result.DurationMS).
			Msg("Table replaced")

		for _, fn := range reporters {
			fn(result)
		}
	}
	return nil
}

// DryRun reads and normalizes the source without writing anything.
func (r *Runner) DryRun(ctx context.Context) (*RunStats, *TableSet, error) {
	stats, err := r.begin(true)
	if err != nil {
		return nil, nil, err
	}
	ctx = logging.ContextWithRunID(ctx, stats.RunID)

	var ts *TableSet
	src, err := ReadSource(r.sourcePath)
	if err == nil {
		ts = Normalize(src.Records)
		logNormalized(ctx, ts)

		counts := ts.Counts()
		r.mu.Lock()
		stats.SourceRows = len(src.Records)
		for _, name := range models.StarSchemaTables {
			stats.Tables = append(stats.Tables, models.TableResult{Table: name, Rows: counts[name]})
		}
		r.mu.Unlock()
	}
	r.finish(stats, err)
	return r.LastRun(), ts, err
}

func logNormalized(ctx context.Context, ts *TableSet) {
	event := logging.Ctx(ctx).Debug()
	for name, n := range ts.Counts() {
		event = event.Int(name, n)
	}
	if ts.MetascoreMode != nil {
		event = event.Float64("metascore_mode", *ts.MetascoreMode)
	}
	event.Msg("Source normalized")
}
