// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/filmdash/internal/config"
	"github.com/tomtom215/filmdash/internal/etl"
	"github.com/tomtom215/filmdash/internal/models"
)

// testDBSemaphore serializes DuckDB usage across tests. Concurrent CGO
// calls from several in-memory databases can hang under CI load.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB creates an in-memory database that is held exclusively for
// the whole test and closed on cleanup.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:                   ":memory:",
		MaxMemory:              "512MB",
		PreserveInsertionOrder: true,
		BreakerFailures:        3,
		BreakerTimeout:         time.Minute,
	}

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		db, err := New(cfg)
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s")
		return nil
	}
}

// loadSample runs the sample CSV through the normalizer and replaces every
// table with the result.
func loadSample(t *testing.T, db *DB) *etl.TableSet {
	t.Helper()

	src, err := etl.ReadSource("../etl/testdata/movies_sample.csv")
	if err != nil {
		t.Fatalf("ReadSource() error = %v", err)
	}
	ts := etl.Normalize(src.Records)
	for _, table := range ts.Tables() {
		if err := db.ReplaceTable(context.Background(), table); err != nil {
			t.Fatalf("ReplaceTable(%s) error = %v", table.Name, err)
		}
	}
	return ts
}

func TestNewInMemory(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if db.Conn() == nil {
		t.Fatal("Conn() returned nil")
	}
}

func TestReplaceTableRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ts := loadSample(t, db)

	counts, err := db.TableCounts(context.Background())
	if err != nil {
		t.Fatalf("TableCounts() error = %v", err)
	}
	want := ts.Counts()
	for _, name := range models.StarSchemaTables {
		if counts[name] != want[name] {
			t.Errorf("%s has %d rows, want %d", name, counts[name], want[name])
		}
	}
}

func TestReplaceTableReplacesWholesale(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := &models.Table{
		Name:    "dim_genre",
		Columns: []models.Column{{Name: "Genre_ID", Type: models.ColumnInteger}, {Name: "Genre_Name", Type: models.ColumnText}},
		Rows:    [][]any{{int64(1), "Drama"}, {int64(2), "Crime"}, {int64(3), "Horror"}},
	}
	if err := db.ReplaceTable(ctx, first); err != nil {
		t.Fatalf("ReplaceTable() error = %v", err)
	}

	second := &models.Table{
		Name:    "dim_genre",
		Columns: []models.Column{{Name: "Genre_ID", Type: models.ColumnInteger}, {Name: "Genre_Name", Type: models.ColumnText}},
		Rows:    [][]any{{int64(1), "Comedy"}},
	}
	if err := db.ReplaceTable(ctx, second); err != nil {
		t.Fatalf("ReplaceTable() error = %v", err)
	}

	var n int
	var name string
	if err := db.Conn().QueryRowContext(ctx, `SELECT COUNT(*), MIN(Genre_Name) FROM dim_genre`).Scan(&n, &name); err != nil {
		t.Fatalf("query error = %v", err)
	}
	if n != 1 || name != "Comedy" {
		t.Errorf("dim_genre = (%d, %q), want (1, Comedy)", n, name)
	}
}

func TestReplaceTableLargeBatch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	table := &models.Table{
		Name:    "dim_time",
		Columns: []models.Column{{Name: "Time_ID", Type: models.ColumnInteger}, {Name: "Year", Type: models.ColumnInteger}},
	}
	// Spans several INSERT batches, with a partial last one.
	total := insertBatchRows*2 + 17
	for i := 1; i <= total; i++ {
		table.Rows = append(table.Rows, []any{int64(i), int64(1900 + i)})
	}
	if err := db.ReplaceTable(ctx, table); err != nil {
		t.Fatalf("ReplaceTable() error = %v", err)
	}

	counts, err := db.TableCounts(ctx)
	if err != nil {
		t.Fatalf("TableCounts() error = %v", err)
	}
	if counts["dim_time"] != total {
		t.Errorf("dim_time has %d rows, want %d", counts["dim_time"], total)
	}
}

func TestReplaceTableRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		table *models.Table
		want  error
	}{
		{
			name:  "no columns",
			table: &models.Table{Name: "dim_movie"},
			want:  ErrMalformedTable,
		},
		{
			name:  "injected table name",
			table: &models.Table{Name: "dim_movie; DROP TABLE fact_movie", Columns: []models.Column{{Name: "a", Type: models.ColumnText}}},
			want:  ErrInvalidIdentifier,
		},
		{
			name:  "bad column name",
			table: &models.Table{Name: "dim_movie", Columns: []models.Column{{Name: "Movie ID", Type: models.ColumnText}}},
			want:  ErrInvalidIdentifier,
		},
		{
			name:  "unknown column type",
			table: &models.Table{Name: "dim_movie", Columns: []models.Column{{Name: "a", Type: "BLOB"}}},
			want:  ErrMalformedTable,
		},
		{
			name: "short row",
			table: &models.Table{
				Name:    "dim_movie",
				Columns: []models.Column{{Name: "a", Type: models.ColumnText}, {Name: "b", Type: models.ColumnText}},
				Rows:    [][]any{{"x"}},
			},
			want: ErrMalformedTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := db.ReplaceTable(ctx, tt.table)
			if !errors.Is(err, tt.want) {
				t.Errorf("ReplaceTable() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTableCountsEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)

	counts, err := db.TableCounts(context.Background())
	if err != nil {
		t.Fatalf("TableCounts() error = %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("expected no tables, got %v", counts)
	}
}

func TestLoadMoviesDenormalizes(t *testing.T) {
	db := setupTestDB(t)
	loadSample(t, db)

	movies, err := db.LoadMovies(context.Background())
	if err != nil {
		t.Fatalf("LoadMovies() error = %v", err)
	}

	// tt0004 has no year and is dropped by the inner join on dim_time.
	if len(movies) != 4 {
		t.Fatalf("got %d movies, want 4", len(movies))
	}

	byID := make(map[string]models.Movie, len(movies))
	for _, m := range movies {
		byID[m.MovieID] = m
	}
	if _, ok := byID["tt0004"]; ok {
		t.Error("movie without a year must not be returned")
	}

	first := byID["tt0001"]
	if first.Genres != "Crime, Drama" {
		t.Errorf("Genres = %q, want %q", first.Genres, "Crime, Drama")
	}
	if first.Directors != "Alice Smith, Bob Jones" {
		t.Errorf("Directors = %q", first.Directors)
	}
	if first.Year != 1994 {
		t.Errorf("Year = %d, want 1994", first.Year)
	}

	// Metascore was imputed with the dataset mode.
	if m := byID["tt0002"]; m.Metascore != 60 || m.MetascoreMissing {
		t.Errorf("tt0002 metascore = %v (missing=%v), want imputed 60", m.Metascore, m.MetascoreMissing)
	}

	// Unparseable votes and empty gross read back as zero.
	if m := byID["tt0003"]; m.Votes != 0 || m.Gross != 0 {
		t.Errorf("tt0003 votes/gross = %v/%v, want 0/0", m.Votes, m.Gross)
	}

	// No genre or director bridge rows leaves empty strings.
	if m := byID["tt0005"]; m.Genres != "" || m.Directors != "" {
		t.Errorf("tt0005 genres/directors = %q/%q, want empty", m.Genres, m.Directors)
	}
}

func TestLoadMoviesMissingTables(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.LoadMovies(context.Background()); err == nil {
		t.Fatal("LoadMovies() on an empty database should fail")
	}
}

func TestLoadMoviesBreakerOpens(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// BreakerFailures is 3 in setupTestDB.
	for i := 0; i < 3; i++ {
		if _, err := db.LoadMovies(ctx); err == nil {
			t.Fatal("expected query failure")
		}
	}

	_, err := db.LoadMovies(ctx)
	if !errors.Is(err, ErrReadUnavailable) {
		t.Fatalf("LoadMovies() error = %v, want ErrReadUnavailable", err)
	}
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"123", 123},
		{" 45.5 ", 45.5},
		{"2,295,987", 0},
		{"", 0},
		{"n/a", 0},
		{"NaN", 0},
		{"-3", -3},
	}
	for _, tt := range tests {
		if got := parseNumeric(tt.in); got != tt.want {
			t.Errorf("parseNumeric(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseRuntime(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"142 min", 142},
		{"90", 90},
		{"1h 30m", 0},
		{"", 0},
		{"95.0 min", 95},
	}
	for _, tt := range tests {
		if got := parseRuntime(tt.in); got != tt.want {
			t.Errorf("parseRuntime(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
