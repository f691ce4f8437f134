// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package dashboard

import (
	"github.com/tomtom215/filmdash/internal/models"
)

// Options tune Build.
type Options struct {
	// Genre selects the genre for the top directors chart. Empty means
	// the first genre option of the filtered set.
	Genre string

	// IncludeMovies attaches the filtered rows to the result.
	IncludeMovies bool
}

// Build assembles the full dashboard for one filter.
func Build(all []models.Movie, f models.Filter, opts Options) *models.Dashboard {
	filtered := Apply(all, f)
	options := GenreOptions(filtered)

	genre := opts.Genre
	if genre == "" && len(options) > 0 {
		genre = options[0]
	}

	d := &models.Dashboard{
		Bounds:       Bounds(all),
		Filter:       f,
		Summary:      Compare(all, f),
		GenreOptions: options,
		Breakdowns: models.Breakdowns{
			GenreCounts:     GenreCounts(filtered),
			GenreGross:      GenreGross(filtered, TopGenresByGross),
			SelectedGenre:   genre,
			TopByVotes:      TopByVotes(filtered, TopMovieCount),
			TopByGross:      TopByGross(filtered, TopMovieCount),
			GrossByYear:     GrossByYear(filtered),
			RatingByYear:    RatingByYear(filtered),
			RatingBox:       RatingDistribution(filtered),
			RatingMetascore: Scatter(filtered),
		},
	}
	if genre != "" {
		d.Breakdowns.TopDirectors = TopDirectors(filtered, genre, TopDirectorCount)
	} else {
		d.Breakdowns.TopDirectors = []models.LabelCount{}
	}
	if opts.IncludeMovies {
		d.Movies = filtered
	}
	return d
}
