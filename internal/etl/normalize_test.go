// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package etl

import (
	"testing"

	"github.com/tomtom215/filmdash/internal/models"
)

func loadSample(t *testing.T) *TableSet {
	t.Helper()
	src, err := ReadSource("testdata/movies_sample.csv")
	if err != nil {
		t.Fatalf("ReadSource() error = %v", err)
	}
	return Normalize(src.Records)
}

func TestNormalizeCounts(t *testing.T) {
	ts := loadSample(t)

	want := map[string]int{
		models.TableDimMovie:       5,
		models.TableDimDirector:    4,
		models.TableDimStar:        4,
		models.TableDimGenre:       4,
		models.TableDimTime:        3,
		models.TableBridgeDirector: 5,
		models.TableBridgeStar:     6,
		models.TableBridgeGenre:    6,
		models.TableFactMovie:      4,
	}
	got := ts.Counts()
	for name, n := range want {
		if got[name] != n {
			t.Errorf("%s rows = %d, want %d", name, got[name], n)
		}
	}
}

func TestNormalizeDimensionIDsFirstSeen(t *testing.T) {
	ts := loadSample(t)

	wantDirectors := []DimensionRow{
		{1, "Alice Smith"},
		{2, "Bob Jones"},
		{3, "lodie Brun"},
		{4, "Frank Green"},
	}
	for i, want := range wantDirectors {
		if ts.Directors[i] != want {
			t.Errorf("Directors[%d] = %+v, want %+v", i, ts.Directors[i], want)
		}
	}

	wantGenres := []string{"Drama", "Crime", "Comedy", "Horror"}
	for i, name := range wantGenres {
		if ts.Genres[i].Name != name || ts.Genres[i].ID != int64(i+1) {
			t.Errorf("Genres[%d] = %+v, want {%d %s}", i, ts.Genres[i], i+1, name)
		}
	}

	if ts.Stars[0].Name != "Carl ONeil" {
		t.Errorf("Stars[0].Name = %q, want apostrophe stripped", ts.Stars[0].Name)
	}
}

func TestNormalizeBridgeKeepsRepeats(t *testing.T) {
	ts := loadSample(t)

	var dana int
	for _, b := range ts.MovieStars {
		if b.MovieID == "tt0002" && b.DimID == 2 {
			dana++
		}
	}
	if dana != 2 {
		t.Errorf("expected 2 bridge rows for the repeated star, got %d", dana)
	}
}

func TestNormalizeTimeAndFacts(t *testing.T) {
	ts := loadSample(t)

	wantTimes := []TimeRow{{1, 1994}, {2, 1972}, {3, 2001}}
	for i, want := range wantTimes {
		if ts.Times[i] != want {
			t.Errorf("Times[%d] = %+v, want %+v", i, ts.Times[i], want)
		}
	}

	for _, f := range ts.Facts {
		if f.MovieID == "tt0004" {
			t.Error("record without a year must not produce a fact row")
		}
	}

	third := ts.Facts[2]
	if third.MovieID != "tt0003" || third.TimeID != 1 {
		t.Errorf("Facts[2] = %+v, want tt0003 with Time_ID 1", third)
	}
	if third.Votes != "n/a" || third.Gross != "" {
		t.Errorf("Votes/Gross should stay raw, got %q/%q", third.Votes, third.Gross)
	}
}

func TestNormalizeMetascoreMode(t *testing.T) {
	ts := loadSample(t)

	// 82 and 60 both appear twice; the smaller value wins.
	if ts.MetascoreMode == nil || *ts.MetascoreMode != 60 {
		t.Fatalf("MetascoreMode = %v, want 60", ts.MetascoreMode)
	}

	second := ts.Facts[1]
	if second.MovieID != "tt0002" {
		t.Fatalf("Facts[1].MovieID = %q, want tt0002", second.MovieID)
	}
	if second.Metascore == nil || *second.Metascore != 60 {
		t.Errorf("null metascore should be imputed with the mode, got %v", second.Metascore)
	}
}

func TestNormalizeNoMetascoreAtAll(t *testing.T) {
	ts := Normalize([]SourceRecord{
		{ID: "a", Time: "2000", Rating: "5"},
		{ID: "b", Time: "2001", Rating: "6"},
	})

	if ts.MetascoreMode != nil {
		t.Errorf("MetascoreMode = %v, want nil", *ts.MetascoreMode)
	}
	for _, f := range ts.Facts {
		if f.Metascore != nil {
			t.Errorf("metascore should stay null, got %v", *f.Metascore)
		}
	}
}

func TestNormalizeDuplicateMovieRows(t *testing.T) {
	rec := SourceRecord{ID: "x", Name: "Dup", Genre: "Drama", Time: "1999", Rating: "7"}
	ts := Normalize([]SourceRecord{rec, rec})

	if len(ts.Movies) != 1 {
		t.Errorf("dim_movie rows = %d, want 1", len(ts.Movies))
	}
	if len(ts.Facts) != 2 {
		t.Errorf("fact rows = %d, want 2 (one per source record)", len(ts.Facts))
	}
	if len(ts.MovieGenres) != 2 {
		t.Errorf("bridge_genre rows = %d, want 2", len(ts.MovieGenres))
	}
}

func TestNormalizeBridgesReferenceKnownMovies(t *testing.T) {
	tests := []struct {
		name    string
		records []SourceRecord
	}{
		{"sample file", nil},
		{"missing cells", []SourceRecord{
			{ID: "m1", Name: "One", Directors: "A B, C D", Stars: "123, E F", Genre: "Drama", Time: "2001"},
			{ID: "m2", Name: "Two", Genre: "Comedy, Drama"},
			{ID: "m3", Name: "Three", Directors: "A B", Time: "2002", Rating: "7"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts *TableSet
			if tt.records == nil {
				ts = loadSample(t)
			} else {
				ts = Normalize(tt.records)
			}

			movies := make(map[string]bool, len(ts.Movies))
			for _, m := range ts.Movies {
				movies[m.MovieID] = true
			}
			bridges := map[string][]BridgeRow{
				models.TableBridgeDirector: ts.MovieDirectors,
				models.TableBridgeStar:     ts.MovieStars,
				models.TableBridgeGenre:    ts.MovieGenres,
			}
			for table, rows := range bridges {
				for _, row := range rows {
					if !movies[row.MovieID] {
						t.Errorf("%s references unknown movie %q", table, row.MovieID)
					}
				}
			}
			for _, f := range ts.Facts {
				if !movies[f.MovieID] {
					t.Errorf("fact row references unknown movie %q", f.MovieID)
				}
			}
		})
	}
}

func TestNormalizeKeepsNameCleanedToEmpty(t *testing.T) {
	ts := Normalize([]SourceRecord{{ID: "m1", Name: "One", Stars: "123", Time: "2001"}})

	if len(ts.Stars) != 1 || ts.Stars[0].Name != "" {
		t.Errorf("stars = %+v, want one member with an empty name", ts.Stars)
	}
	if len(ts.MovieStars) != 1 {
		t.Errorf("bridge_star rows = %d, want 1", len(ts.MovieStars))
	}
}

func TestTablesLayout(t *testing.T) {
	ts := loadSample(t)
	tables := ts.Tables()

	if len(tables) != len(models.StarSchemaTables) {
		t.Fatalf("Tables() returned %d tables, want %d", len(tables), len(models.StarSchemaTables))
	}
	for i, table := range tables {
		if table.Name != models.StarSchemaTables[i] {
			t.Errorf("table %d = %s, want %s", i, table.Name, models.StarSchemaTables[i])
		}
		for r, row := range table.Rows {
			if len(row) != len(table.Columns) {
				t.Fatalf("%s row %d has %d values, want %d", table.Name, r, len(row), len(table.Columns))
			}
		}
	}

	fact := tables[len(tables)-1]
	if fact.Rows[2][5] != nil {
		t.Errorf("empty Gross should be NULL, got %v", fact.Rows[2][5])
	}
	if fact.Rows[0][2] != 9.3 {
		t.Errorf("Rating = %v, want 9.3", fact.Rows[0][2])
	}
}
