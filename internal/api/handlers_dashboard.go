// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package api

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/filmdash/internal/dashboard"
	"github.com/tomtom215/filmdash/internal/models"
)

// MoviesResponse is the filtered raw table.
type MoviesResponse struct {
	Count  int            `json:"count"`
	Filter models.Filter  `json:"filter"`
	Movies []models.Movie `json:"movies"`
}

// GenresResponse lists genre options and the per-genre charts.
type GenresResponse struct {
	Options []string            `json:"options"`
	Counts  []models.LabelCount `json:"counts"`
	Gross   []models.LabelValue `json:"gross"`
}

// DirectorsResponse is the top directors chart for one genre.
type DirectorsResponse struct {
	Genre     string              `json:"genre"`
	Directors []models.LabelCount `json:"directors"`
}

// dataset loads the movies for a request, writing a 503 on failure.
func (h *Handler) dataset(w http.ResponseWriter, r *http.Request) ([]models.Movie, bool, bool) {
	movies, cached, err := h.movies(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeDatabase, "Failed to load movie dataset", err)
		return nil, false, false
	}
	return movies, cached, true
}

// Dashboard returns the complete dashboard for a filter.
//
// Query parameters:
//   - year_min, year_max: inclusive year range (default: dataset bounds)
//   - rating_min, rating_max: inclusive rating range (default: dataset bounds)
//   - genre: genre for the top directors chart (default: first option)
//   - include_movies: attach the filtered rows (default: false)
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	movies, cached, ok := h.dataset(w, r)
	if !ok {
		return
	}

	req, apiErr := parseDashboardRequest(r, dashboard.Bounds(movies))
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	result := dashboard.Build(movies, req.Filter(), dashboard.Options{
		Genre:         req.Genre,
		IncludeMovies: req.IncludeMovies,
	})
	respondSuccess(w, result, start, cached)
}

// DashboardSummary returns only the KPIs and their deltas.
func (h *Handler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	movies, cached, ok := h.dataset(w, r)
	if !ok {
		return
	}

	req, apiErr := parseFilterRequest(r, dashboard.Bounds(movies))
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	respondSuccess(w, dashboard.Compare(movies, req.Filter()), start, cached)
}

// DashboardBounds returns the slider limits.
func (h *Handler) DashboardBounds(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	movies, cached, ok := h.dataset(w, r)
	if !ok {
		return
	}
	respondSuccess(w, dashboard.Bounds(movies), start, cached)
}

// Movies returns the filtered denormalized rows.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	movies, cached, ok := h.dataset(w, r)
	if !ok {
		return
	}

	req, apiErr := parseFilterRequest(r, dashboard.Bounds(movies))
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	filter := req.Filter()
	filtered := dashboard.Apply(movies, filter)
	respondSuccess(w, MoviesResponse{
		Count:  len(filtered),
		Filter: filter,
		Movies: filtered,
	}, start, cached)
}

// Genres returns the genre options with movie counts and the top grossing
// genres for a filter.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	movies, cached, ok := h.dataset(w, r)
	if !ok {
		return
	}

	req, apiErr := parseFilterRequest(r, dashboard.Bounds(movies))
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	filtered := dashboard.Apply(movies, req.Filter())
	respondSuccess(w, GenresResponse{
		Options: dashboard.GenreOptions(filtered),
		Counts:  dashboard.GenreCounts(filtered),
		Gross:   dashboard.GenreGross(filtered, dashboard.TopGenresByGross),
	}, start, cached)
}

// GenreDirectors returns the most frequent directors of movies whose genres
// contain the path genre.
func (h *Handler) GenreDirectors(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	genre, err := url.PathUnescape(chi.URLParam(r, "genre"))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid genre", nil)
		return
	}
	genre = strings.TrimSpace(genre)

	movies, cached, ok := h.dataset(w, r)
	if !ok {
		return
	}

	req, apiErr := parseDirectorsRequest(r, genre, dashboard.Bounds(movies))
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	filtered := dashboard.Apply(movies, req.Filter())
	respondSuccess(w, DirectorsResponse{
		Genre:     req.Genre,
		Directors: dashboard.TopDirectors(filtered, req.Genre, req.Limit),
	}, start, cached)
}
