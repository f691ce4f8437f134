// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package dashboard

import (
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/filmdash/internal/models"
)

const (
	// GenreSeparator joins the tokens of the aggregated Genres and
	// Directors strings.
	GenreSeparator = ", "

	// NoGenreData is shown as the popular genre of a set without genres.
	NoGenreData = "N/A"

	maxPopularGenres = 3
)

// Delta is the percent change from prev to cur. It is 0 unless prev is
// positive.
func Delta(cur, prev float64) float64 {
	if prev > 0 {
		return (cur - prev) / prev * 100
	}
	return 0
}

// Summarize computes the KPIs of one set of movies. Rating aggregates skip
// unrated movies; Count does not.
func Summarize(movies []models.Movie) models.PeriodStats {
	stats := models.PeriodStats{
		Count:         len(movies),
		PopularGenres: PopularGenres(movies),
	}

	var sum float64
	rated := 0
	best := -1
	for i := range movies {
		m := &movies[i]
		stats.TotalGross += m.Gross
		if !m.HasRating() {
			continue
		}
		sum += m.Rating
		rated++
		if best < 0 || m.Rating > movies[best].Rating {
			best = i
		}
	}

	if rated > 0 {
		stats.MeanRating = round2(sum / float64(rated))
	}
	if best >= 0 {
		stats.MaxRating = movies[best].Rating
		stats.OptimalRuntime = movies[best].Runtime
	}
	return stats
}

// Compare summarizes the filtered movies and the preceding period. The
// preceding period is filtered by year only; the rating range does not
// apply to it.
func Compare(all []models.Movie, f models.Filter) models.Summary {
	prevPeriod := PreviousPeriod(f)
	cur := Summarize(Apply(all, f))
	prev := Summarize(InPeriod(all, prevPeriod))

	return models.Summary{
		Current:             cur,
		Previous:            prev,
		PreviousPeriod:      prevPeriod,
		CountDelta:          Delta(float64(cur.Count), float64(prev.Count)),
		MeanRatingDelta:     Delta(cur.MeanRating, prev.MeanRating),
		MaxRatingDelta:      Delta(cur.MaxRating, prev.MaxRating),
		TotalGrossDelta:     Delta(cur.TotalGross, prev.TotalGross),
		OptimalRuntimeDelta: Delta(float64(cur.OptimalRuntime), float64(prev.OptimalRuntime)),
	}
}

// PopularGenres returns the most frequent genre tokens. When several tokens
// share the top count, up to three of them are returned in alphabetical
// order.
func PopularGenres(movies []models.Movie) string {
	counts := make(map[string]int)
	top := 0
	for i := range movies {
		for _, g := range splitTokens(movies[i].Genres) {
			counts[g]++
			if counts[g] > top {
				top = counts[g]
			}
		}
	}
	if top == 0 {
		return NoGenreData
	}

	modes := make([]string, 0, len(counts))
	for g, n := range counts {
		if n == top {
			modes = append(modes, g)
		}
	}
	sort.Strings(modes)
	if len(modes) > maxPopularGenres {
		modes = modes[:maxPopularGenres]
	}
	return strings.Join(modes, GenreSeparator)
}

// splitTokens explodes an aggregated ", "-joined string. An empty string
// has no tokens.
func splitTokens(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, GenreSeparator)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
