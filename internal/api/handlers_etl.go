// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/filmdash/internal/logging"
	"github.com/tomtom215/filmdash/internal/models"
)

// ETLRun runs the ETL synchronously and returns the run summary. The run is
// detached from the request context so a client disconnect does not abort a
// half-written load.
func (h *Handler) ETLRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}
	start := time.Now()

	ctx := context.WithoutCancel(r.Context())
	stats, err := h.etl.Run(ctx)
	if err != nil {
		status, code, message := etlErrorStatus(err)
		var details map[string]interface{}
		if stats != nil {
			details = map[string]interface{}{"run": stats.ToSummary()}
		}
		if status >= http.StatusInternalServerError {
			respondErrorDetails(w, status, code, message, err, details)
			return
		}
		logging.Ctx(r.Context()).Warn().Str("code", code).Err(err).Msg("ETL run rejected")
		respondErrorDetails(w, status, code, message, nil, details)
		return
	}

	respondSuccess(w, stats.ToSummary(), start, false)
}

// ETLStatus reports whether a run is active, the last run and the current
// row count of every star-schema table.
func (h *Handler) ETLStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	counts, err := h.store.TableCounts(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeDatabase, "Failed to read table counts", err)
		return
	}

	status := models.ETLStatus{
		Running:     h.etl.Running(),
		TableCounts: counts,
	}
	if last := h.etl.LastRun(); last != nil {
		status.LastRun = last.ToSummary()
	}

	respondSuccess(w, status, start, false)
}
