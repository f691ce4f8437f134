// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package models

// FilterBounds are the extremes of the dataset, used as slider limits and
// as the default filter.
type FilterBounds struct {
	MinYear   int     `json:"min_year"`
	MaxYear   int     `json:"max_year"`
	MinRating float64 `json:"min_rating"`
	MaxRating float64 `json:"max_rating"`
}

// PeriodStats are the KPIs computed over one filtered set of movies.
type PeriodStats struct {
	Count          int     `json:"count"`
	MeanRating     float64 `json:"mean_rating"`
	MaxRating      float64 `json:"max_rating"`
	TotalGross     float64 `json:"total_gross"`
	OptimalRuntime int     `json:"optimal_runtime"`
	PopularGenres  string  `json:"popular_genres"`
}

// Period is an inclusive year range.
type Period struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Summary compares the current selection against the previous period.
type Summary struct {
	Current             PeriodStats `json:"current"`
	Previous            PeriodStats `json:"previous"`
	PreviousPeriod      Period      `json:"previous_period"`
	CountDelta          float64     `json:"count_delta_pct"`
	MeanRatingDelta     float64     `json:"mean_rating_delta_pct"`
	MaxRatingDelta      float64     `json:"max_rating_delta_pct"`
	TotalGrossDelta     float64     `json:"total_gross_delta_pct"`
	OptimalRuntimeDelta float64     `json:"optimal_runtime_delta_pct"`
}

// LabelCount is one bar of a count chart.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LabelValue is one bar of a summed-value chart.
type LabelValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// YearValue is one point of a per-year trend.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// BoxStats summarizes a rating distribution.
type BoxStats struct {
	Count    int       `json:"count"`
	Min      float64   `json:"min"`
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	Max      float64   `json:"max"`
	Outliers []float64 `json:"outliers"`
}

// ScatterPoint is one movie in the rating vs. metascore chart.
type ScatterPoint struct {
	Name      string  `json:"movie_name"`
	Rating    float64 `json:"rating"`
	Metascore float64 `json:"metascore"`
	Genres    string  `json:"genres"`
}

// Breakdowns are the chart series derived from the filtered movies.
type Breakdowns struct {
	GenreCounts     []LabelCount   `json:"genre_counts"`
	GenreGross      []LabelValue   `json:"genre_gross"`
	SelectedGenre   string         `json:"selected_genre"`
	TopDirectors    []LabelCount   `json:"top_directors"`
	TopByVotes      []LabelValue   `json:"top_by_votes"`
	TopByGross      []LabelValue   `json:"top_by_gross"`
	GrossByYear     []YearValue    `json:"gross_by_year"`
	RatingByYear    []YearValue    `json:"rating_by_year"`
	RatingBox       BoxStats       `json:"rating_box"`
	RatingMetascore []ScatterPoint `json:"rating_metascore"`
}

// Dashboard is the complete view for one filter.
type Dashboard struct {
	Bounds       FilterBounds `json:"bounds"`
	Filter       Filter       `json:"filter"`
	Summary      Summary      `json:"summary"`
	GenreOptions []string     `json:"genre_options"`
	Breakdowns   Breakdowns   `json:"breakdowns"`
	Movies       []Movie      `json:"movies,omitempty"`
}

// Filter selects movies by an inclusive year range and an inclusive rating range.
type Filter struct {
	YearMin   int     `json:"year_min"`
	YearMax   int     `json:"year_max"`
	RatingMin float64 `json:"rating_min"`
	RatingMax float64 `json:"rating_max"`
}
