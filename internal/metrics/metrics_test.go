// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		err       error
	}{
		{"successful read", "SELECT", "fact_movie", nil},
		{"failed replace", "REPLACE", "dim_genre", errors.New("disk full")},
		{
			"long error is truncated",
			"REPLACE",
			"bridge_star",
			errors.New(strings.Repeat("x", 120)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordDBQuery(tt.operation, tt.table, 5*time.Millisecond, tt.err)
			if tt.err == nil {
				return
			}
			errType := tt.err.Error()
			if len(errType) > 50 {
				errType = errType[:50]
			}
			got := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table, errType))
			if got < 1 {
				t.Errorf("expected error counter to be incremented, got %v", got)
			}
		})
	}
}

func TestRecordETLRun(t *testing.T) {
	beforeOK := testutil.ToFloat64(ETLRunsTotal.WithLabelValues("completed"))
	beforeFail := testutil.ToFloat64(ETLRunsTotal.WithLabelValues("failed"))

	RecordETLRun(time.Second, nil)
	RecordETLRun(time.Second, errors.New("boom"))

	if got := testutil.ToFloat64(ETLRunsTotal.WithLabelValues("completed")); got != beforeOK+1 {
		t.Errorf("completed runs = %v, want %v", got, beforeOK+1)
	}
	if got := testutil.ToFloat64(ETLRunsTotal.WithLabelValues("failed")); got != beforeFail+1 {
		t.Errorf("failed runs = %v, want %v", got, beforeFail+1)
	}
	if testutil.ToFloat64(ETLLastSuccess) == 0 {
		t.Error("expected last success timestamp to be set")
	}
}

func TestRecordTableLoaded(t *testing.T) {
	RecordTableLoaded("dim_time", 42)
	if got := testutil.ToFloat64(ETLRowsLoaded.WithLabelValues("dim_time")); got != 42 {
		t.Errorf("dim_time rows = %v, want 42", got)
	}
}

func TestRecordDatasetCache(t *testing.T) {
	hits := testutil.ToFloat64(DatasetCacheHits)
	misses := testutil.ToFloat64(DatasetCacheMisses)

	RecordDatasetCache(true)
	RecordDatasetCache(false)
	RecordDatasetCache(false)

	if got := testutil.ToFloat64(DatasetCacheHits); got != hits+1 {
		t.Errorf("hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(DatasetCacheMisses); got != misses+2 {
		t.Errorf("misses = %v, want %v", got, misses+2)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}
