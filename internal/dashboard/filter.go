// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

// Package dashboard derives every figure shown on the dashboard from the
// denormalized movie rows: the filtered set, the KPI summary compared with
// the preceding period, and the chart breakdowns. All functions are pure
// and never modify their input.
package dashboard

import (
	"github.com/tomtom215/filmdash/internal/models"
)

// Apply keeps movies whose year and rating both fall inside the filter's
// inclusive ranges. Movies without a rating never match.
func Apply(movies []models.Movie, f models.Filter) []models.Movie {
	out := make([]models.Movie, 0, len(movies))
	for i := range movies {
		m := &movies[i]
		if m.Year < f.YearMin || m.Year > f.YearMax {
			continue
		}
		if !m.HasRating() || m.Rating < f.RatingMin || m.Rating > f.RatingMax {
			continue
		}
		out = append(out, *m)
	}
	return out
}

// InPeriod keeps movies whose year falls inside p, regardless of rating.
func InPeriod(movies []models.Movie, p models.Period) []models.Movie {
	out := make([]models.Movie, 0)
	for i := range movies {
		if movies[i].Year >= p.Start && movies[i].Year <= p.End {
			out = append(out, movies[i])
		}
	}
	return out
}

// PreviousPeriod returns the year range of equal length that ends the year
// before the filter starts.
func PreviousPeriod(f models.Filter) models.Period {
	duration := f.YearMax - f.YearMin
	end := f.YearMin - 1
	return models.Period{Start: end - duration, End: end}
}

// Bounds returns the year and rating extremes of the dataset. Rating
// bounds only consider rated movies.
func Bounds(movies []models.Movie) models.FilterBounds {
	var b models.FilterBounds
	yearSeen, ratingSeen := false, false
	for i := range movies {
		m := &movies[i]
		if !yearSeen || m.Year < b.MinYear {
			b.MinYear = m.Year
		}
		if !yearSeen || m.Year > b.MaxYear {
			b.MaxYear = m.Year
		}
		yearSeen = true

		if !m.HasRating() {
			continue
		}
		if !ratingSeen || m.Rating < b.MinRating {
			b.MinRating = m.Rating
		}
		if !ratingSeen || m.Rating > b.MaxRating {
			b.MaxRating = m.Rating
		}
		ratingSeen = true
	}
	return b
}

// DefaultFilter selects the whole dataset.
func DefaultFilter(b models.FilterBounds) models.Filter {
	return models.Filter{
		YearMin:   b.MinYear,
		YearMax:   b.MaxYear,
		RatingMin: b.MinRating,
		RatingMax: b.MaxRating,
	}
}
