// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package models

// ColumnType is the SQL type a column is created with.
type ColumnType string

const (
	ColumnText    ColumnType = "VARCHAR"
	ColumnInteger ColumnType = "BIGINT"
	ColumnDouble  ColumnType = "DOUBLE"
)

// Column describes one column of a star-schema table.
type Column struct {
	Name string
	Type ColumnType
}

// Table is a fully materialized star-schema table ready to be written.
// Each row has exactly len(Columns) values; nil stands for SQL NULL.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// Star-schema table names.
const (
	TableDimMovie       = "dim_movie"
	TableDimDirector    = "dim_director"
	TableDimStar        = "dim_star"
	TableDimGenre       = "dim_genre"
	TableDimTime        = "dim_time"
	TableBridgeDirector = "bridge_director"
	TableBridgeStar     = "bridge_star"
	TableBridgeGenre    = "bridge_genre"
	TableFactMovie      = "fact_movie"
)

// StarSchemaTables lists every table in load order.
var StarSchemaTables = []string{
	TableDimMovie,
	TableDimDirector,
	TableDimStar,
	TableDimGenre,
	TableDimTime,
	TableBridgeDirector,
	TableBridgeStar,
	TableBridgeGenre,
	TableFactMovie,
}
