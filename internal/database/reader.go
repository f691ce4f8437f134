// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/filmdash/internal/logging"
	"github.com/tomtom215/filmdash/internal/metrics"
	"github.com/tomtom215/filmdash/internal/models"
)

// denormalizedMoviesQuery returns one row per fact. Genre and director
// names are folded into ", "-joined strings by correlated subqueries so the
// bridge tables never multiply rows.
const denormalizedMoviesQuery = `
SELECT
	dm.Movie_ID,
	dm.Movie_Name,
	dm.Runtime,
	dm.Plot,
	dt.Year,
	fm.Rating,
	fm.Metascore,
	fm.Votes,
	fm.Gross,
	(SELECT string_agg(DISTINCT g.Genre_Name, ', ' ORDER BY g.Genre_Name)
	   FROM bridge_genre bg JOIN dim_genre g ON bg.Genre_ID = g.Genre_ID
	  WHERE bg.Movie_ID = dm.Movie_ID) AS Genres,
	(SELECT string_agg(DISTINCT d.Director_Name, ', ' ORDER BY d.Director_Name)
	   FROM bridge_director bd JOIN dim_director d ON bd.Director_ID = d.Director_ID
	  WHERE bd.Movie_ID = dm.Movie_ID) AS Directors
FROM fact_movie fm
JOIN dim_movie dm ON fm.Movie_ID = dm.Movie_ID
JOIN dim_time dt ON fm.Time_ID = dt.Time_ID
ORDER BY fm.rowid`

// runtimeSuffix is stripped from Runtime before parsing.
const runtimeSuffix = " min"

// LoadMovies reads the denormalized dataset. Reads go through a circuit
// breaker; while it is open the call fails fast with ErrReadUnavailable.
func (db *DB) LoadMovies(ctx context.Context) ([]models.Movie, error) {
	movies, err := db.readBreaker.Execute(func() ([]models.Movie, error) {
		return db.queryMovies(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", ErrReadUnavailable, err)
		}
		return nil, err
	}
	return movies, nil
}

func (db *DB) queryMovies(ctx context.Context) (movies []models.Movie, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("SELECT", models.TableFactMovie, time.Since(start), err)
	}()

	rows, err := db.conn.QueryContext(ctx, denormalizedMoviesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer closeWithLog(rows, "movie rows")

	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movies: %w", err)
	}

	metrics.DatasetRows.Set(float64(len(movies)))
	logging.Ctx(ctx).Debug().Int("rows", len(movies)).Dur("took", time.Since(start)).Msg("Loaded denormalized movies")
	return movies, nil
}

func scanMovie(rows *sql.Rows) (models.Movie, error) {
	var (
		id, name, runtime, plot sql.NullString
		year                    sql.NullInt64
		rating, metascore       sql.NullFloat64
		votes, gross            sql.NullString
		genres, directors       sql.NullString
	)
	if err := rows.Scan(&id, &name, &runtime, &plot, &year, &rating, &metascore,
		&votes, &gross, &genres, &directors); err != nil {
		return models.Movie{}, fmt.Errorf("failed to scan movie: %w", err)
	}

	return models.Movie{
		MovieID:          id.String,
		Name:             name.String,
		Runtime:          parseRuntime(runtime.String),
		Plot:             plot.String,
		Year:             int(year.Int64),
		Rating:           rating.Float64,
		RatingMissing:    !rating.Valid,
		Metascore:        metascore.Float64,
		MetascoreMissing: !metascore.Valid,
		Votes:            parseNumeric(votes.String),
		Gross:            parseNumeric(gross.String),
		Genres:           genres.String,
		Directors:        directors.String,
	}, nil
}

// parseNumeric coerces a stored text value to a number. Anything that is
// not a plain decimal (thousands separators included) becomes 0.
func parseNumeric(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parseRuntime turns "142 min" into 142. Unparseable values become 0.
func parseRuntime(s string) int {
	return int(parseNumeric(strings.ReplaceAll(s, runtimeSuffix, "")))
}
