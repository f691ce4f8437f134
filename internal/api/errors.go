// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/filmdash/internal/etl"
)

// Error codes for API responses
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeSourceNotFound   = "SOURCE_NOT_FOUND"
	ErrCodeSourceInvalid    = "SOURCE_INVALID"
	ErrCodeETLInProgress    = "ETL_IN_PROGRESS"
	ErrCodeETLFailed        = "ETL_FAILED"
	ErrCodeDatabase         = "DATABASE_ERROR"
	ErrCodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// etlErrorStatus maps an ETL run error to an HTTP status, error code and
// client message.
func etlErrorStatus(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, etl.ErrRunInProgress):
		return http.StatusConflict, ErrCodeETLInProgress, "An ETL run is already in progress"
	case errors.Is(err, etl.ErrSourceNotFound):
		return http.StatusUnprocessableEntity, ErrCodeSourceNotFound, "Source CSV file not found; nothing was written"
	case errors.Is(err, etl.ErrMissingColumn), errors.Is(err, etl.ErrEmptySource):
		return http.StatusUnprocessableEntity, ErrCodeSourceInvalid, "Source CSV file is not usable: " + err.Error()
	default:
		return http.StatusInternalServerError, ErrCodeETLFailed, "ETL run failed"
	}
}
