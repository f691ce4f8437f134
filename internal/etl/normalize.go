// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package etl

import (
	"sort"

	"github.com/tomtom215/filmdash/internal/models"
)

// DimMovieRow is one distinct (ID, name, runtime, plot, link) tuple.
type DimMovieRow struct {
	MovieID string
	Name    string
	Runtime string
	Plot    string
	Link    string
}

// DimensionRow is a named dimension member (director, star or genre).
type DimensionRow struct {
	ID   int64
	Name string
}

// TimeRow is a dim_time member.
type TimeRow struct {
	ID   int64
	Year int64
}

// BridgeRow links a movie to a dimension member.
type BridgeRow struct {
	MovieID string
	DimID   int64
}

// FactRow is one fact_movie row. Votes and Gross keep the raw source text;
// numeric coercion happens on read.
type FactRow struct {
	MovieID   string
	TimeID    int64
	Rating    *float64
	Metascore *float64
	Votes     string
	Gross     string
}

// TableSet is the normalized star schema produced from one source file.
type TableSet struct {
	Movies         []DimMovieRow
	Directors      []DimensionRow
	Stars          []DimensionRow
	Genres         []DimensionRow
	Times          []TimeRow
	MovieDirectors []BridgeRow
	MovieStars     []BridgeRow
	MovieGenres    []BridgeRow
	Facts          []FactRow

	// MetascoreMode is the value null metascores were filled with, nil if
	// the source had no metascore at all.
	MetascoreMode *float64
}

// dimension assigns 1-based IDs to names in first-seen order.
type dimension struct {
	ids  map[string]int64
	rows []DimensionRow
}

func newDimension() *dimension {
	return &dimension{ids: make(map[string]int64)}
}

func (d *dimension) idFor(name string) int64 {
	if id, ok := d.ids[name]; ok {
		return id
	}
	id := int64(len(d.rows) + 1)
	d.ids[name] = id
	d.rows = append(d.rows, DimensionRow{ID: id, Name: name})
	return id
}

// explode adds one bridge row per element of a multi-valued cell. Repeated
// elements produce repeated bridge rows.
func (d *dimension) explode(movieID, cell string, clean func(string) string, out []BridgeRow) []BridgeRow {
	for _, v := range SplitMulti(cell) {
		if clean != nil {
			v = clean(v)
		}
		out = append(out, BridgeRow{MovieID: movieID, DimID: d.idFor(v)})
	}
	return out
}

// Normalize builds the star schema from the source records. It never fails
// on bad cell contents: unparseable numbers are null and records without a
// year are left out of the fact table.
func Normalize(records []SourceRecord) *TableSet {
	ts := &TableSet{}

	directors := newDimension()
	stars := newDimension()
	genres := newDimension()

	seenMovies := make(map[DimMovieRow]struct{}, len(records))
	timeIDs := make(map[int64]int64)

	for i := range records {
		rec := &records[i]

		movie := DimMovieRow{
			MovieID: rec.ID,
			Name:    rec.Name,
			Runtime: rec.Runtime,
			Plot:    rec.Plot,
			Link:    rec.Link,
		}
		if _, dup := seenMovies[movie]; !dup {
			seenMovies[movie] = struct{}{}
			ts.Movies = append(ts.Movies, movie)
		}

		ts.MovieDirectors = directors.explode(rec.ID, rec.Directors, CleanPersonName, ts.MovieDirectors)
		ts.MovieStars = stars.explode(rec.ID, rec.Stars, CleanPersonName, ts.MovieStars)
		ts.MovieGenres = genres.explode(rec.ID, rec.Genre, nil, ts.MovieGenres)

		if year, ok := parseYear(rec.Time); ok {
			if _, seen := timeIDs[year]; !seen {
				id := int64(len(ts.Times) + 1)
				timeIDs[year] = id
				ts.Times = append(ts.Times, TimeRow{ID: id, Year: year})
			}
		}
	}

	ts.Directors = directors.rows
	ts.Stars = stars.rows
	ts.Genres = genres.rows

	if mode, ok := metascoreMode(records); ok {
		ts.MetascoreMode = &mode
	}

	for i := range records {
		rec := &records[i]
		year, ok := parseYear(rec.Time)
		if !ok {
			continue
		}

		fact := FactRow{
			MovieID: rec.ID,
			TimeID:  timeIDs[year],
			Votes:   rec.Votes,
			Gross:   rec.Gross,
		}
		if v, ok := parseNullableFloat(rec.Rating); ok {
			fact.Rating = &v
		}
		if v, ok := parseNullableFloat(rec.Metascore); ok {
			fact.Metascore = &v
		} else if ts.MetascoreMode != nil {
			m := *ts.MetascoreMode
			fact.Metascore = &m
		}
		ts.Facts = append(ts.Facts, fact)
	}

	return ts
}

// metascoreMode returns the most frequent non-null metascore over all
// records. Ties resolve to the smallest value.
func metascoreMode(records []SourceRecord) (float64, bool) {
	counts := make(map[float64]int)
	for i := range records {
		if v, ok := parseNullableFloat(records[i].Metascore); ok {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return 0, false
	}

	values := make([]float64, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Float64s(values)

	best := values[0]
	for _, v := range values[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, true
}

// Counts returns the row count of each table keyed by table name.
func (ts *TableSet) Counts() map[string]int {
	return map[string]int{
		models.TableDimMovie:       len(ts.Movies),
		models.TableDimDirector:    len(ts.Directors),
		models.TableDimStar:        len(ts.Stars),
		models.TableDimGenre:       len(ts.Genres),
		models.TableDimTime:        len(ts.Times),
		models.TableBridgeDirector: len(ts.MovieDirectors),
		models.TableBridgeStar:     len(ts.MovieStars),
		models.TableBridgeGenre:    len(ts.MovieGenres),
		models.TableFactMovie:      len(ts.Facts),
	}
}

// Tables materializes the set as loadable tables in load order.
func (ts *TableSet) Tables() []*models.Table {
	return []*models.Table{
		ts.dimMovieTable(),
		dimensionTable(models.TableDimDirector, "Director_ID", "Director_Name", ts.Directors),
		dimensionTable(models.TableDimStar, "Star_ID", "Star_Name", ts.Stars),
		dimensionTable(models.TableDimGenre, "Genre_ID", "Genre_Name", ts.Genres),
		ts.dimTimeTable(),
		bridgeTable(models.TableBridgeDirector, "Director_ID", ts.MovieDirectors),
		bridgeTable(models.TableBridgeStar, "Star_ID", ts.MovieStars),
		bridgeTable(models.TableBridgeGenre, "Genre_ID", ts.MovieGenres),
		ts.factTable(),
	}
}

func (ts *TableSet) dimMovieTable() *models.Table {
	t := &models.Table{
		Name: models.TableDimMovie,
		Columns: []models.Column{
			{Name: "Movie_ID", Type: models.ColumnText},
			{Name: "Movie_Name", Type: models.ColumnText},
			{Name: "Runtime", Type: models.ColumnText},
			{Name: "Plot", Type: models.ColumnText},
			{Name: "Link", Type: models.ColumnText},
		},
		Rows: make([][]any, 0, len(ts.Movies)),
	}
	for _, m := range ts.Movies {
		t.Rows = append(t.Rows, []any{
			nullableText(m.MovieID),
			nullableText(m.Name),
			nullableText(m.Runtime),
			nullableText(m.Plot),
			nullableText(m.Link),
		})
	}
	return t
}

func dimensionTable(name, idCol, nameCol string, rows []DimensionRow) *models.Table {
	t := &models.Table{
		Name: name,
		Columns: []models.Column{
			{Name: idCol, Type: models.ColumnInteger},
			{Name: nameCol, Type: models.ColumnText},
		},
		Rows: make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.ID, r.Name})
	}
	return t
}

func (ts *TableSet) dimTimeTable() *models.Table {
	t := &models.Table{
		Name: models.TableDimTime,
		Columns: []models.Column{
			{Name: "Time_ID", Type: models.ColumnInteger},
			{Name: "Year", Type: models.ColumnInteger},
		},
		Rows: make([][]any, 0, len(ts.Times)),
	}
	for _, r := range ts.Times {
		t.Rows = append(t.Rows, []any{r.ID, r.Year})
	}
	return t
}

func bridgeTable(name, idCol string, rows []BridgeRow) *models.Table {
	t := &models.Table{
		Name: name,
		Columns: []models.Column{
			{Name: "Movie_ID", Type: models.ColumnText},
			{Name: idCol, Type: models.ColumnInteger},
		},
		Rows: make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{nullableText(r.MovieID), r.DimID})
	}
	return t
}

func (ts *TableSet) factTable() *models.Table {
	t := &models.Table{
		Name: models.TableFactMovie,
		Columns: []models.Column{
			{Name: "Movie_ID", Type: models.ColumnText},
			{Name: "Time_ID", Type: models.ColumnInteger},
			{Name: "Rating", Type: models.ColumnDouble},
			{Name: "Metascore", Type: models.ColumnDouble},
			{Name: "Votes", Type: models.ColumnText},
			{Name: "Gross", Type: models.ColumnText},
		},
		Rows: make([][]any, 0, len(ts.Facts)),
	}
	for _, f := range ts.Facts {
		t.Rows = append(t.Rows, []any{
			nullableText(f.MovieID),
			f.TimeID,
			nullableFloat(f.Rating),
			nullableFloat(f.Metascore),
			nullableText(f.Votes),
			nullableText(f.Gross),
		})
	}
	return t
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
