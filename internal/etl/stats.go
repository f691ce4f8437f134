// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package etl

import (
	"time"

	"github.com/tomtom215/filmdash/internal/models"
)

// Run status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunStats tracks one ETL run.
type RunStats struct {
	// RunID identifies the run in logs and API responses.
	RunID string

	SourcePath string

	// SourceRows is the number of CSV records read.
	SourceRows int

	// Tables lists every table replaced so far, in load order. On failure
	// it holds the tables that were replaced before the failing one.
	Tables []models.TableResult

	StartTime time.Time

	// EndTime is zero while the run is in progress.
	EndTime time.Time

	Status string
	Err    error

	// DryRun runs normalize only, nothing is written.
	DryRun bool
}

// Duration returns the elapsed time of the run.
func (s *RunStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// RowsLoaded sums the row counts of the replaced tables.
func (s *RunStats) RowsLoaded() int {
	total := 0
	for _, t := range s.Tables {
		total += t.Rows
	}
	return total
}

// ToSummary converts the stats to their JSON form.
func (s *RunStats) ToSummary() *models.RunSummary {
	summary := &models.RunSummary{
		RunID:      s.RunID,
		Status:     s.Status,
		DryRun:     s.DryRun,
		SourcePath: s.SourcePath,
		SourceRows: s.SourceRows,
		Tables:     append([]models.TableResult(nil), s.Tables...),
		StartTime:  s.StartTime,
		DurationMS: s.Duration().Milliseconds(),
	}
	if summary.Tables == nil {
		summary.Tables = []models.TableResult{}
	}
	if !s.EndTime.IsZero() {
		end := s.EndTime
		summary.EndTime = &end
	}
	if s.Err != nil {
		summary.Error = s.Err.Error()
	}
	return summary
}

func (s *RunStats) clone() *RunStats {
	c := *s
	c.Tables = append([]models.TableResult(nil), s.Tables...)
	return &c
}
