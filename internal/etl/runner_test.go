// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package etl

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/filmdash/internal/models"
)

// recordingLoader remembers the tables it was asked to replace and can be
// told to fail on a given table.
type recordingLoader struct {
	mu       sync.Mutex
	replaced []string
	failOn   string
	block    chan struct{}
}

func (l *recordingLoader) ReplaceTable(_ context.Context, table *models.Table) error {
	if l.block != nil {
		<-l.block
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if table.Name == l.failOn {
		return errors.New("disk full")
	}
	l.replaced = append(l.replaced, table.Name)
	return nil
}

func (l *recordingLoader) tables() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.replaced...)
}

func TestRunnerRunReplacesAllTablesInOrder(t *testing.T) {
	loader := &recordingLoader{}
	runner := NewRunner("testdata/movies_sample.csv", loader)

	var reported []models.TableResult
	runner.OnTable(func(r models.TableResult) { reported = append(reported, r) })

	var completed *RunStats
	runner.OnComplete(func(_ context.Context, s *RunStats) { completed = s })

	stats, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := loader.tables()
	if len(got) != len(models.StarSchemaTables) {
		t.Fatalf("replaced %d tables, want %d", len(got), len(models.StarSchemaTables))
	}
	for i, name := range models.StarSchemaTables {
		if got[i] != name {
			t.Errorf("table %d = %s, want %s", i, got[i], name)
		}
	}

	if stats.Status != StatusCompleted {
		t.Errorf("Status = %q, want completed", stats.Status)
	}
	if stats.SourceRows != 5 {
		t.Errorf("SourceRows = %d, want 5", stats.SourceRows)
	}
	if len(reported) != len(models.StarSchemaTables) {
		t.Errorf("OnTable called %d times, want %d", len(reported), len(models.StarSchemaTables))
	}
	if completed == nil || completed.RunID != stats.RunID {
		t.Error("OnComplete hook was not called with the run stats")
	}
	if runner.Running() {
		t.Error("runner should not be running after Run returns")
	}
}

func TestRunnerMissingSourceWritesNothing(t *testing.T) {
	loader := &recordingLoader{}
	runner := NewRunner("testdata/missing.csv", loader)

	called := false
	runner.OnComplete(func(context.Context, *RunStats) { called = true })
	var failed *RunStats
	runner.OnFailure(func(_ context.Context, s *RunStats) { failed = s })

	stats, err := runner.Run(context.Background())
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("Run() error = %v, want ErrSourceNotFound", err)
	}
	if len(loader.tables()) != 0 {
		t.Errorf("no table should be written, got %v", loader.tables())
	}
	if stats.Status != StatusFailed {
		t.Errorf("Status = %q, want failed", stats.Status)
	}
	if called {
		t.Error("OnComplete must not run for a failed run")
	}
	if failed == nil || failed.RunID != stats.RunID {
		t.Error("OnFailure hook was not called with the run stats")
	}
}

func TestRunnerStopsAtFailingTable(t *testing.T) {
	loader := &recordingLoader{failOn: models.TableDimTime}
	runner := NewRunner("testdata/movies_sample.csv", loader)

	stats, err := runner.Run(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}

	got := loader.tables()
	want := []string{models.TableDimMovie, models.TableDimDirector, models.TableDimStar, models.TableDimGenre}
	if len(got) != len(want) {
		t.Fatalf("replaced %v, want %v", got, want)
	}
	if len(stats.Tables) != len(want) {
		t.Errorf("stats report %d tables, want %d", len(stats.Tables), len(want))
	}
	if summary := stats.ToSummary(); summary.Error == "" || summary.Status != StatusFailed {
		t.Errorf("summary = %+v, want failed with error text", summary)
	}
}

func TestRunnerRejectsConcurrentRun(t *testing.T) {
	loader := &recordingLoader{block: make(chan struct{})}
	runner := NewRunner("testdata/movies_sample.csv", loader)

	done := make(chan error, 1)
	go func() {
		_, err := runner.Run(context.Background())
		done <- err
	}()

	// Wait until the first run holds the guard.
	for !runner.Running() {
		time.Sleep(time.Millisecond)
	}

	if _, err := runner.Run(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("second Run() error = %v, want ErrRunInProgress", err)
	}

	close(loader.block)
	if err := <-done; err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
}

func TestRunnerDryRun(t *testing.T) {
	loader := &recordingLoader{}
	runner := NewRunner("testdata/movies_sample.csv", loader)

	stats, ts, err := runner.DryRun(context.Background())
	if err != nil {
		t.Fatalf("DryRun() error = %v", err)
	}
	if len(loader.tables()) != 0 {
		t.Error("dry run must not write")
	}
	if ts == nil || len(ts.Facts) != 4 {
		t.Error("dry run should return the normalized tables")
	}
	if !stats.DryRun || len(stats.Tables) != len(models.StarSchemaTables) {
		t.Errorf("unexpected dry run stats: %+v", stats)
	}
}

func TestRunnerCanceledContext(t *testing.T) {
	loader := &recordingLoader{}
	runner := NewRunner("testdata/movies_sample.csv", loader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := runner.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(loader.tables()) != 0 {
		t.Error("canceled run must not write")
	}
}
