// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

// Package etl turns the flat movie CSV into the star schema and hands the
// resulting tables to a Loader.
//
// A run has three phases:
//
//  1. ReadSource parses the CSV into SourceRecords (raw strings, "" = null).
//  2. Normalize explodes the multi-valued Directors, Stars and Genre cells,
//     assigns dimension IDs, imputes Metascore and builds the fact rows.
//  3. Runner replaces each of the nine tables through the Loader, one table
//     at a time, stopping at the first failure.
package etl

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrSourceNotFound is returned when the CSV file does not exist.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrEmptySource is returned for a file without a header row.
	ErrEmptySource = errors.New("source file has no header row")
)

// Source CSV headers.
const (
	ColID        = "ID"
	ColMovieName = "Movie Name"
	ColRuntime   = "Runtime"
	ColPlot      = "Plot"
	ColLink      = "Link"
	ColDirectors = "Directors"
	ColStars     = "Stars"
	ColGenre     = "Genre"
	ColTime      = "Time"
	ColRating    = "Rating"
	ColMetascore = "Metascore"
	ColVotes     = "Votes"
	ColGross     = "Gross"
)

// RequiredColumns are the headers ReadSource insists on.
var RequiredColumns = []string{
	ColID, ColMovieName, ColRuntime, ColPlot, ColLink,
	ColDirectors, ColStars, ColGenre, ColTime,
	ColRating, ColMetascore, ColVotes, ColGross,
}

// SourceRecord is one CSV row. Every field is the raw cell text; an empty
// string means the cell was null.
type SourceRecord struct {
	Line      int
	ID        string
	Name      string
	Runtime   string
	Plot      string
	Link      string
	Directors string
	Stars     string
	Genre     string
	Time      string
	Rating    string
	Metascore string
	Votes     string
	Gross     string
}

// Source is a parsed CSV file.
type Source struct {
	Path    string
	Records []SourceRecord
}

// ReadSource opens path and parses it. A missing file yields an error
// wrapping ErrSourceNotFound so callers can abort before touching the
// database.
func ReadSource(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open source %s: %w", path, err)
	}
	defer f.Close()

	records, err := ParseSource(f)
	if err != nil {
		return nil, fmt.Errorf("parse source %s: %w", path, err)
	}
	return &Source{Path: path, Records: records}, nil
}

// ParseSource reads CSV data with a header row. Columns are matched by
// header name, so order and extra columns do not matter.
func ParseSource(r io.Reader) ([]SourceRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptySource
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	var records []SourceRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if isBlankRow(row) {
			continue
		}

		cell := func(col string) string {
			i := idx[col]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}

		records = append(records, SourceRecord{
			Line:      line,
			ID:        cell(ColID),
			Name:      cell(ColMovieName),
			Runtime:   cell(ColRuntime),
			Plot:      cell(ColPlot),
			Link:      cell(ColLink),
			Directors: cell(ColDirectors),
			Stars:     cell(ColStars),
			Genre:     cell(ColGenre),
			Time:      cell(ColTime),
			Rating:    cell(ColRating),
			Metascore: cell(ColMetascore),
			Votes:     cell(ColVotes),
			Gross:     cell(ColGross),
		})
	}

	return records, nil
}

func indexHeader(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
