// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package models

import "time"

// TableResult reports the outcome of replacing one table.
type TableResult struct {
	Table      string `json:"table"`
	Rows       int    `json:"rows"`
	DurationMS int64  `json:"duration_ms"`
}

// RunSummary is the JSON-friendly view of an ETL run.
type RunSummary struct {
	RunID      string        `json:"run_id"`
	Status     string        `json:"status"`
	DryRun     bool          `json:"dry_run,omitempty"`
	SourcePath string        `json:"source_path"`
	SourceRows int           `json:"source_rows"`
	Tables     []TableResult `json:"tables"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    *time.Time    `json:"end_time,omitempty"`
	DurationMS int64         `json:"duration_ms"`
	Error      string        `json:"error,omitempty"`
}

// ETLStatus is returned by the status endpoint.
type ETLStatus struct {
	Running     bool           `json:"running"`
	LastRun     *RunSummary    `json:"last_run,omitempty"`
	TableCounts map[string]int `json:"table_counts"`
}
