// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package dashboard

import (
	"cmp"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/tomtom215/filmdash/internal/models"
)

// Chart sizes.
const (
	TopGenresByGross = 10
	TopDirectorCount = 5
	TopMovieCount    = 10
)

// tally counts labels and remembers the order they were first seen in, so
// equal counts keep a deterministic order.
type tally struct {
	order  []string
	counts map[string]int
	sums   map[string]float64
}

func newTally() *tally {
	return &tally{counts: make(map[string]int), sums: make(map[string]float64)}
}

func (t *tally) add(label string, value float64) {
	if _, ok := t.counts[label]; !ok {
		t.order = append(t.order, label)
	}
	t.counts[label]++
	t.sums[label] += value
}

func (t *tally) byCount(limit int) []models.LabelCount {
	out := make([]models.LabelCount, 0, len(t.order))
	for _, label := range t.order {
		out = append(out, models.LabelCount{Label: label, Count: t.counts[label]})
	}
	slices.SortStableFunc(out, func(a, b models.LabelCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return truncate(out, limit)
}

func (t *tally) bySum(limit int) []models.LabelValue {
	out := make([]models.LabelValue, 0, len(t.order))
	for _, label := range t.order {
		out = append(out, models.LabelValue{Label: label, Value: t.sums[label]})
	}
	sortValuesDesc(out)
	return truncate(out, limit)
}

func sortValuesDesc(values []models.LabelValue) {
	slices.SortStableFunc(values, func(a, b models.LabelValue) int {
		return cmp.Compare(b.Value, a.Value)
	})
}

// truncate keeps the first limit elements; limit <= 0 keeps everything.
func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

// GenreCounts counts movies per genre token, most frequent first.
func GenreCounts(movies []models.Movie) []models.LabelCount {
	t := newTally()
	for i := range movies {
		for _, g := range splitTokens(movies[i].Genres) {
			t.add(g, 0)
		}
	}
	return t.byCount(0)
}

// GenreGross sums gross per genre token and returns the top earners. A
// movie's full gross counts toward each of its genres.
func GenreGross(movies []models.Movie, limit int) []models.LabelValue {
	t := newTally()
	for i := range movies {
		for _, g := range splitTokens(movies[i].Genres) {
			t.add(g, movies[i].Gross)
		}
	}
	return t.bySum(limit)
}

// GenreOptions returns the distinct genre tokens in alphabetical order.
func GenreOptions(movies []models.Movie) []string {
	seen := make(map[string]struct{})
	options := make([]string, 0)
	for i := range movies {
		for _, g := range splitTokens(movies[i].Genres) {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			options = append(options, g)
		}
	}
	sort.Strings(options)
	return options
}

// TopDirectors counts directors among movies whose Genres string contains
// genre. The match is a substring match on the whole string, not a token
// match.
func TopDirectors(movies []models.Movie, genre string, limit int) []models.LabelCount {
	t := newTally()
	for i := range movies {
		m := &movies[i]
		if !strings.Contains(m.Genres, genre) {
			continue
		}
		for _, d := range splitTokens(m.Directors) {
			t.add(d, 0)
		}
	}
	return t.byCount(limit)
}

// TopByVotes returns the most voted movies. Ties keep dataset order.
func TopByVotes(movies []models.Movie, limit int) []models.LabelValue {
	return topBy(movies, limit, func(m *models.Movie) float64 { return m.Votes })
}

// TopByGross returns the highest grossing movies. Ties keep dataset order.
func TopByGross(movies []models.Movie, limit int) []models.LabelValue {
	return topBy(movies, limit, func(m *models.Movie) float64 { return m.Gross })
}

func topBy(movies []models.Movie, limit int, value func(*models.Movie) float64) []models.LabelValue {
	out := make([]models.LabelValue, 0, len(movies))
	for i := range movies {
		out = append(out, models.LabelValue{Label: movies[i].Name, Value: value(&movies[i])})
	}
	sortValuesDesc(out)
	return truncate(out, limit)
}

// GrossByYear sums gross per year, oldest first.
func GrossByYear(movies []models.Movie) []models.YearValue {
	sums := make(map[int]float64)
	for i := range movies {
		sums[movies[i].Year] += movies[i].Gross
	}
	return yearSeries(sums)
}

// RatingByYear averages the rating per year, oldest first. Unrated movies
// are skipped; a year with no rated movie is left out.
func RatingByYear(movies []models.Movie) []models.YearValue {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for i := range movies {
		m := &movies[i]
		if !m.HasRating() {
			continue
		}
		sums[m.Year] += m.Rating
		counts[m.Year]++
	}
	for y, n := range counts {
		sums[y] /= float64(n)
	}
	return yearSeries(sums)
}

func yearSeries(values map[int]float64) []models.YearValue {
	out := make([]models.YearValue, 0, len(values))
	for y, v := range values {
		out = append(out, models.YearValue{Year: y, Value: v})
	}
	slices.SortFunc(out, func(a, b models.YearValue) int {
		return cmp.Compare(a.Year, b.Year)
	})
	return out
}

// RatingDistribution summarizes ratings for a box plot. Quartiles use
// linear interpolation between closest ranks; outliers lie more than
// 1.5 IQR beyond the quartiles.
func RatingDistribution(movies []models.Movie) models.BoxStats {
	ratings := make([]float64, 0, len(movies))
	for i := range movies {
		if movies[i].HasRating() {
			ratings = append(ratings, movies[i].Rating)
		}
	}
	box := models.BoxStats{Count: len(ratings), Outliers: []float64{}}
	if len(ratings) == 0 {
		return box
	}
	sort.Float64s(ratings)

	box.Min = ratings[0]
	box.Max = ratings[len(ratings)-1]
	box.Q1 = quantile(ratings, 0.25)
	box.Median = quantile(ratings, 0.5)
	box.Q3 = quantile(ratings, 0.75)

	iqr := box.Q3 - box.Q1
	lo, hi := box.Q1-1.5*iqr, box.Q3+1.5*iqr
	for _, r := range ratings {
		if r < lo || r > hi {
			box.Outliers = append(box.Outliers, r)
		}
	}
	return box
}

// quantile expects sorted input.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// Scatter pairs rating with metascore for every movie that has both.
func Scatter(movies []models.Movie) []models.ScatterPoint {
	out := make([]models.ScatterPoint, 0, len(movies))
	for i := range movies {
		m := &movies[i]
		if !m.HasRating() || m.MetascoreMissing {
			continue
		}
		out = append(out, models.ScatterPoint{
			Name:      m.Name,
			Rating:    m.Rating,
			Metascore: m.Metascore,
			Genres:    m.Genres,
		})
	}
	return out
}
