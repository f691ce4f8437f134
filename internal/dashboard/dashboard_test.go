// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package dashboard

import (
	"math"
	"testing"

	"github.com/tomtom215/filmdash/internal/models"
)

func fixtureMovies() []models.Movie {
	return []models.Movie{
		{MovieID: "a", Name: "Alpha", Year: 2000, Rating: 8.0, Runtime: 120, Gross: 100, Votes: 50, Metascore: 70, Genres: "Action, Drama", Directors: "Ann"},
		{MovieID: "b", Name: "Bravo", Year: 2001, Rating: 9.0, Runtime: 100, Gross: 300, Votes: 10, Metascore: 90, Genres: "Drama", Directors: "Ann, Bob"},
		{MovieID: "c", Name: "Charlie", Year: 2002, Rating: 7.0, Runtime: 90, Gross: 50, Votes: 200, Metascore: 60, Genres: "Comedy", Directors: "Cid"},
		{MovieID: "d", Name: "Delta", Year: 1998, Rating: 6.0, Runtime: 110, Gross: 20, Votes: 5, Metascore: 50, Genres: "Drama", Directors: "Dee"},
		{MovieID: "e", Name: "Echo", Year: 1999, RatingMissing: true, Runtime: 80, Gross: 40, Votes: 1, Metascore: 40, Genres: "Horror"},
		{MovieID: "f", Name: "Foxtrot", Year: 2001, Rating: 9.0, Runtime: 130, Gross: 10, Votes: 10, Metascore: 80, Genres: "Action-Comedy", Directors: "Eve"},
	}
}

func ids(movies []models.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.MovieID
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestApply(t *testing.T) {
	all := fixtureMovies()

	tests := []struct {
		name   string
		filter models.Filter
		want   []string
	}{
		{"year and rating", models.Filter{YearMin: 2000, YearMax: 2002, RatingMin: 7.5, RatingMax: 10}, []string{"a", "b", "f"}},
		{"inclusive bounds", models.Filter{YearMin: 2001, YearMax: 2001, RatingMin: 9, RatingMax: 9}, []string{"b", "f"}},
		{"unrated never matches", models.Filter{YearMin: 1999, YearMax: 1999, RatingMin: 0, RatingMax: 10}, []string{}},
		{"empty range", models.Filter{YearMin: 2010, YearMax: 2020, RatingMin: 0, RatingMax: 10}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(all, tt.filter))
			if !equalStrings(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFullBoundsKeepsEveryRatedMovie(t *testing.T) {
	all := fixtureMovies()
	got := Apply(all, DefaultFilter(Bounds(all)))
	if len(got) != 5 {
		t.Errorf("full-range filter kept %d movies, want 5 rated ones", len(got))
	}
}

func TestPreviousPeriod(t *testing.T) {
	tests := []struct {
		filter models.Filter
		want   models.Period
	}{
		{models.Filter{YearMin: 2000, YearMax: 2002}, models.Period{Start: 1997, End: 1999}},
		{models.Filter{YearMin: 2010, YearMax: 2010}, models.Period{Start: 2009, End: 2009}},
		{models.Filter{YearMin: 1990, YearMax: 2019}, models.Period{Start: 1960, End: 1989}},
	}
	for _, tt := range tests {
		if got := PreviousPeriod(tt.filter); got != tt.want {
			t.Errorf("PreviousPeriod(%+v) = %+v, want %+v", tt.filter, got, tt.want)
		}
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		cur, prev, want float64
	}{
		{15, 10, 50},
		{5, 10, -50},
		{10, 0, 0},
		{10, -5, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := Delta(tt.cur, tt.prev); !approx(got, tt.want) {
			t.Errorf("Delta(%v, %v) = %v, want %v", tt.cur, tt.prev, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	all := fixtureMovies()
	stats := Summarize(Apply(all, models.Filter{YearMin: 2000, YearMax: 2002, RatingMin: 7.5, RatingMax: 10}))

	if stats.Count != 3 {
		t.Errorf("Count = %d, want 3", stats.Count)
	}
	if stats.MeanRating != 8.67 {
		t.Errorf("MeanRating = %v, want 8.67", stats.MeanRating)
	}
	if stats.MaxRating != 9 {
		t.Errorf("MaxRating = %v, want 9", stats.MaxRating)
	}
	if stats.TotalGross != 410 {
		t.Errorf("TotalGross = %v, want 410", stats.TotalGross)
	}
	// Bravo and Foxtrot tie at 9.0; Bravo comes first.
	if stats.OptimalRuntime != 100 {
		t.Errorf("OptimalRuntime = %d, want 100", stats.OptimalRuntime)
	}
	if stats.PopularGenres != "Drama" {
		t.Errorf("PopularGenres = %q, want Drama", stats.PopularGenres)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)
	want := models.PeriodStats{PopularGenres: NoGenreData}
	if stats != want {
		t.Errorf("Summarize(nil) = %+v, want %+v", stats, want)
	}
}

func TestCompareIgnoresRatingForPreviousPeriod(t *testing.T) {
	all := fixtureMovies()
	s := Compare(all, models.Filter{YearMin: 2000, YearMax: 2002, RatingMin: 7.5, RatingMax: 10})

	if s.PreviousPeriod != (models.Period{Start: 1997, End: 1999}) {
		t.Errorf("PreviousPeriod = %+v", s.PreviousPeriod)
	}
	// Delta (6.0) is below the rating filter and Echo is unrated; both
	// still count toward the previous period.
	if s.Previous.Count != 2 {
		t.Errorf("Previous.Count = %d, want 2", s.Previous.Count)
	}
	if s.Previous.MeanRating != 6 {
		t.Errorf("Previous.MeanRating = %v, want 6", s.Previous.MeanRating)
	}
	if s.Previous.PopularGenres != "Drama, Horror" {
		t.Errorf("Previous.PopularGenres = %q", s.Previous.PopularGenres)
	}
	if !approx(s.CountDelta, 50) {
		t.Errorf("CountDelta = %v, want 50", s.CountDelta)
	}
	if !approx(s.TotalGrossDelta, (410.0-60.0)/60.0*100) {
		t.Errorf("TotalGrossDelta = %v", s.TotalGrossDelta)
	}
	if !approx(s.MeanRatingDelta, (8.67-6.0)/6.0*100) {
		t.Errorf("MeanRatingDelta = %v", s.MeanRatingDelta)
	}
	if !approx(s.MaxRatingDelta, 50) {
		t.Errorf("MaxRatingDelta = %v, want 50", s.MaxRatingDelta)
	}
}

func TestCompareSingleYearWindow(t *testing.T) {
	movies := []models.Movie{
		{MovieID: "a", Year: 2000, Rating: 7.0, Genres: "Drama"},
		{MovieID: "b", Year: 2000, Rating: 8.0, Genres: "Drama"},
		{MovieID: "c", Year: 2001, Rating: 9.0, Genres: "Drama"},
	}

	s := Compare(movies, models.Filter{YearMin: 2001, YearMax: 2001, RatingMin: 0, RatingMax: 10})

	tests := []struct {
		name   string
		got    float64
		expect float64
	}{
		{"current count", float64(s.Current.Count), 1},
		{"current mean", s.Current.MeanRating, 9.0},
		{"previous count", float64(s.Previous.Count), 2},
		{"previous mean", s.Previous.MeanRating, 7.5},
		{"count delta", s.CountDelta, -50},
		{"mean delta", s.MeanRatingDelta, 20},
	}
	for _, tt := range tests {
		if !approx(tt.got, tt.expect) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expect)
		}
	}
	if s.PreviousPeriod.Start != 2000 || s.PreviousPeriod.End != 2000 {
		t.Errorf("previous period = %+v, want 2000..2000", s.PreviousPeriod)
	}
}

func TestPopularGenresTies(t *testing.T) {
	movies := []models.Movie{
		{Genres: "Western, Drama"},
		{Genres: "Crime, Action"},
		{Genres: "Sci-Fi"},
		{Genres: ""},
	}
	if got := PopularGenres(movies); got != "Action, Crime, Drama" {
		t.Errorf("PopularGenres() = %q, want first three alphabetically", got)
	}
	if got := PopularGenres([]models.Movie{{Genres: ""}}); got != NoGenreData {
		t.Errorf("PopularGenres() = %q, want %q", got, NoGenreData)
	}
}

func TestGenreCounts(t *testing.T) {
	got := GenreCounts(fixtureMovies())
	want := []models.LabelCount{
		{Label: "Drama", Count: 3},
		{Label: "Action", Count: 1},
		{Label: "Comedy", Count: 1},
		{Label: "Horror", Count: 1},
		{Label: "Action-Comedy", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("GenreCounts() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("GenreCounts()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGenreGross(t *testing.T) {
	got := GenreGross(fixtureMovies(), 2)
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	// Drama: 100 + 300 + 20.
	if got[0].Label != "Drama" || got[0].Value != 420 {
		t.Errorf("top genre = %+v, want Drama 420", got[0])
	}
	if got[1].Label != "Action" || got[1].Value != 100 {
		t.Errorf("second genre = %+v, want Action 100", got[1])
	}
}

func TestGenreOptions(t *testing.T) {
	got := GenreOptions(fixtureMovies())
	want := []string{"Action", "Action-Comedy", "Comedy", "Drama", "Horror"}
	if !equalStrings(got, want) {
		t.Errorf("GenreOptions() = %v, want %v", got, want)
	}
}

func TestTopDirectorsSubstringMatch(t *testing.T) {
	got := TopDirectors(fixtureMovies(), "Action", 5)
	// "Action" also matches the literal "Action-Comedy".
	want := []models.LabelCount{{Label: "Ann", Count: 1}, {Label: "Eve", Count: 1}}
	if len(got) != len(want) {
		t.Fatalf("TopDirectors() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TopDirectors()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	drama := TopDirectors(fixtureMovies(), "Drama", 1)
	if len(drama) != 1 || drama[0] != (models.LabelCount{Label: "Ann", Count: 2}) {
		t.Errorf("TopDirectors(Drama, 1) = %v, want Ann x2", drama)
	}
}

func TestTopByVotesAndGross(t *testing.T) {
	all := fixtureMovies()

	votes := TopByVotes(all, 3)
	if len(votes) != 3 || votes[0].Label != "Charlie" || votes[1].Label != "Alpha" {
		t.Errorf("TopByVotes() = %v", votes)
	}
	// Bravo and Foxtrot tie on votes; dataset order wins.
	if votes[2].Label != "Bravo" {
		t.Errorf("TopByVotes()[2] = %v, want Bravo", votes[2])
	}

	gross := TopByGross(all, 10)
	if len(gross) != len(all) || gross[0].Label != "Bravo" || gross[len(gross)-1].Label != "Foxtrot" {
		t.Errorf("TopByGross() = %v", gross)
	}
}

func TestYearSeries(t *testing.T) {
	all := fixtureMovies()

	gross := GrossByYear(all)
	wantYears := []int{1998, 1999, 2000, 2001, 2002}
	if len(gross) != len(wantYears) {
		t.Fatalf("GrossByYear() = %v", gross)
	}
	for i, y := range wantYears {
		if gross[i].Year != y {
			t.Errorf("GrossByYear()[%d].Year = %d, want %d", i, gross[i].Year, y)
		}
	}
	if gross[3].Value != 310 {
		t.Errorf("2001 gross = %v, want 310", gross[3].Value)
	}

	ratings := RatingByYear(all)
	for _, p := range ratings {
		if p.Year == 1999 {
			t.Error("a year with only unrated movies should be omitted")
		}
	}
	if len(ratings) != 4 || ratings[2].Value != 9 {
		t.Errorf("RatingByYear() = %v", ratings)
	}
}

func TestRatingDistribution(t *testing.T) {
	movies := []models.Movie{{Rating: 3}, {Rating: 1}, {Rating: 100}, {Rating: 2}, {Rating: 4}, {RatingMissing: true}}
	box := RatingDistribution(movies)

	if box.Count != 5 {
		t.Errorf("Count = %d, want 5", box.Count)
	}
	if box.Min != 1 || box.Max != 100 {
		t.Errorf("Min/Max = %v/%v, want 1/100", box.Min, box.Max)
	}
	if box.Q1 != 2 || box.Median != 3 || box.Q3 != 4 {
		t.Errorf("quartiles = %v/%v/%v, want 2/3/4", box.Q1, box.Median, box.Q3)
	}
	if len(box.Outliers) != 1 || box.Outliers[0] != 100 {
		t.Errorf("Outliers = %v, want [100]", box.Outliers)
	}

	empty := RatingDistribution(nil)
	if empty.Count != 0 || empty.Outliers == nil {
		t.Errorf("empty distribution = %+v", empty)
	}
}

func TestQuantileInterpolates(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	if got := quantile(sorted, 0.25); !approx(got, 1.75) {
		t.Errorf("quantile(0.25) = %v, want 1.75", got)
	}
	if got := quantile(sorted, 0.5); !approx(got, 2.5) {
		t.Errorf("quantile(0.5) = %v, want 2.5", got)
	}
}

func TestScatterSkipsIncompleteRows(t *testing.T) {
	movies := fixtureMovies()
	movies[0].MetascoreMissing = true

	points := Scatter(movies)
	// Alpha lacks a metascore and Echo lacks a rating.
	if len(points) != 4 {
		t.Errorf("Scatter() returned %d points, want 4", len(points))
	}
}

func TestBounds(t *testing.T) {
	b := Bounds(fixtureMovies())
	want := models.FilterBounds{MinYear: 1998, MaxYear: 2002, MinRating: 6, MaxRating: 9}
	if b != want {
		t.Errorf("Bounds() = %+v, want %+v", b, want)
	}
	if Bounds(nil) != (models.FilterBounds{}) {
		t.Error("Bounds(nil) should be zero")
	}
}

func TestBuild(t *testing.T) {
	all := fixtureMovies()
	f := models.Filter{YearMin: 2000, YearMax: 2002, RatingMin: 0, RatingMax: 10}

	d := Build(all, f, Options{})
	if d.Breakdowns.SelectedGenre != "Action" {
		t.Errorf("SelectedGenre = %q, want first option", d.Breakdowns.SelectedGenre)
	}
	if d.Movies != nil {
		t.Error("movies should be omitted unless requested")
	}
	if d.Summary.Current.Count != 4 {
		t.Errorf("Current.Count = %d, want 4", d.Summary.Current.Count)
	}

	d = Build(all, f, Options{Genre: "Comedy", IncludeMovies: true})
	if len(d.Movies) != 4 {
		t.Errorf("Movies = %d rows, want 4", len(d.Movies))
	}
	// Charlie (Comedy) and Foxtrot (Action-Comedy).
	if len(d.Breakdowns.TopDirectors) != 2 {
		t.Errorf("TopDirectors = %v", d.Breakdowns.TopDirectors)
	}
}

func TestBuildEmptySelection(t *testing.T) {
	d := Build(fixtureMovies(), models.Filter{YearMin: 2050, YearMax: 2060, RatingMin: 0, RatingMax: 10}, Options{})
	if d.Summary.Current.Count != 0 || d.Summary.Current.PopularGenres != NoGenreData {
		t.Errorf("empty selection summary = %+v", d.Summary.Current)
	}
	if d.Breakdowns.SelectedGenre != "" || len(d.Breakdowns.TopDirectors) != 0 {
		t.Errorf("empty selection breakdowns = %+v", d.Breakdowns)
	}
}
