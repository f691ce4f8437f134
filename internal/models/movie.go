// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

// Package models holds the data types shared between the ETL, the database
// layer, the dashboard engine and the HTTP API.
package models

// Movie is one denormalized row read back from the star schema: a fact row
// joined with its movie and time dimensions, plus the distinct genre and
// director names aggregated into ", "-joined strings.
type Movie struct {
	MovieID   string  `json:"movie_id"`
	Name      string  `json:"movie_name"`
	Runtime   int     `json:"runtime"`
	Plot      string  `json:"plot"`
	Year      int     `json:"year"`
	Rating    float64 `json:"rating"`
	Metascore float64 `json:"metascore"`
	Votes     float64 `json:"votes"`
	Gross     float64 `json:"gross"`
	Genres    string  `json:"genres"`
	Directors string  `json:"directors"`

	// RatingMissing is set when the fact row has no rating. Such rows never
	// pass a rating filter and are skipped by rating aggregates.
	RatingMissing bool `json:"rating_missing,omitempty"`

	// MetascoreMissing is only possible when the source had no metascore
	// at all, so there was no mode to impute from.
	MetascoreMissing bool `json:"metascore_missing,omitempty"`
}

// HasRating reports whether the row carries a rating.
func (m *Movie) HasRating() bool {
	return !m.RatingMissing
}
