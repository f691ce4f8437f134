// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/filmdash/internal/logging"
)

var (
	// ErrInvalidIdentifier is returned for table or column names that are
	// not plain SQL identifiers.
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")

	// ErrMalformedTable is returned when a row does not match the columns.
	ErrMalformedTable = errors.New("malformed table")

	// ErrReadUnavailable wraps reads rejected by the open circuit breaker.
	ErrReadUnavailable = errors.New("dataset read temporarily unavailable")
)

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource on an error path where the Close error
// is not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
