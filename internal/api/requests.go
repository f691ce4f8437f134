// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/filmdash/internal/dashboard"
	"github.com/tomtom215/filmdash/internal/models"
)

// FilterRequest holds the year and rating range shared by the dashboard,
// movie and genre endpoints. Missing parameters default to the dataset
// bounds.
type FilterRequest struct {
	YearMin   int     `query:"year_min" validate:"gte=0,lte=9999"`
	YearMax   int     `query:"year_max" validate:"gte=0,lte=9999,gtefield=YearMin"`
	RatingMin float64 `query:"rating_min" validate:"gte=0,lte=10"`
	RatingMax float64 `query:"rating_max" validate:"gte=0,lte=10,gtefield=RatingMin"`
}

// Filter converts the request to the engine's filter type.
func (f *FilterRequest) Filter() models.Filter {
	return models.Filter{
		YearMin:   f.YearMin,
		YearMax:   f.YearMax,
		RatingMin: f.RatingMin,
		RatingMax: f.RatingMax,
	}
}

// DashboardRequest adds the genre selection and the raw table toggle.
type DashboardRequest struct {
	FilterRequest
	Genre         string `query:"genre" validate:"omitempty,max=100"`
	IncludeMovies bool   `query:"include_movies"`
}

// DirectorsRequest selects the genre and chart size for top directors.
type DirectorsRequest struct {
	FilterRequest
	Genre string `query:"genre" validate:"required,max=100"`
	Limit int    `query:"limit" validate:"min=1,max=50"`
}

// parseFilterRequest reads the range parameters, defaulting each missing
// one to the dataset bounds, and validates the result.
func parseFilterRequest(r *http.Request, bounds models.FilterBounds) (*FilterRequest, *models.APIError) {
	def := dashboard.DefaultFilter(bounds)
	req := &FilterRequest{}

	var apiErr *models.APIError
	if req.YearMin, apiErr = intParam(r, "year_min", def.YearMin); apiErr != nil {
		return nil, apiErr
	}
	if req.YearMax, apiErr = intParam(r, "year_max", def.YearMax); apiErr != nil {
		return nil, apiErr
	}
	if req.RatingMin, apiErr = floatParam(r, "rating_min", def.RatingMin); apiErr != nil {
		return nil, apiErr
	}
	if req.RatingMax, apiErr = floatParam(r, "rating_max", def.RatingMax); apiErr != nil {
		return nil, apiErr
	}

	if apiErr := validateRequest(req); apiErr != nil {
		return nil, apiErr
	}
	return req, nil
}

func parseDashboardRequest(r *http.Request, bounds models.FilterBounds) (*DashboardRequest, *models.APIError) {
	filter, apiErr := parseFilterRequest(r, bounds)
	if apiErr != nil {
		return nil, apiErr
	}

	req := &DashboardRequest{
		FilterRequest: *filter,
		Genre:         strings.TrimSpace(r.URL.Query().Get("genre")),
	}
	if req.IncludeMovies, apiErr = boolParam(r, "include_movies", false); apiErr != nil {
		return nil, apiErr
	}
	if apiErr := validateRequest(req); apiErr != nil {
		return nil, apiErr
	}
	return req, nil
}

func parseDirectorsRequest(r *http.Request, genre string, bounds models.FilterBounds) (*DirectorsRequest, *models.APIError) {
	filter, apiErr := parseFilterRequest(r, bounds)
	if apiErr != nil {
		return nil, apiErr
	}

	req := &DirectorsRequest{
		FilterRequest: *filter,
		Genre:         genre,
	}
	if req.Limit, apiErr = intParam(r, "limit", dashboard.TopDirectorCount); apiErr != nil {
		return nil, apiErr
	}
	if apiErr := validateRequest(req); apiErr != nil {
		return nil, apiErr
	}
	return req, nil
}
