// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tomtom215/filmdash/internal/logging"
	"github.com/tomtom215/filmdash/internal/metrics"
	"github.com/tomtom215/filmdash/internal/models"
)

// insertBatchRows is the number of rows per multi-row INSERT statement.
const insertBatchRows = 250

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func quoteIdent(name string) (string, error) {
	if !identPattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return `"` + name + `"`, nil
}

// ReplaceTable drops the table if it exists, recreates it from the table's
// column list and inserts every row, all inside one transaction. Either the
// table ends up with exactly table.Rows or it is left as it was.
func (db *DB) ReplaceTable(ctx context.Context, table *models.Table) (err error) {
	if table == nil {
		return fmt.Errorf("%w: nil table", ErrMalformedTable)
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("REPLACE", table.Name, time.Since(start), err)
	}()

	ddl, insertPrefix, rowPlaceholder, err := buildReplaceSQL(table)
	if err != nil {
		return err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Ctx(ctx).Error().Err(rbErr).AnErr("original_error", err).
					Str("table", table.Name).
					Msg("Transaction rollback failed")
			}
		}
	}()

	for _, stmt := range ddl {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute %q: %w", stmt, err)
		}
	}

	if err = insertRows(ctx, tx, table, insertPrefix, rowPlaceholder); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// buildReplaceSQL validates the table and renders its DDL statements, the
// INSERT prefix and the per-row placeholder group.
func buildReplaceSQL(table *models.Table) (ddl []string, insertPrefix, rowPlaceholder string, err error) {
	if len(table.Columns) == 0 {
		return nil, "", "", fmt.Errorf("%w: no columns", ErrMalformedTable)
	}
	name, err := quoteIdent(table.Name)
	if err != nil {
		return nil, "", "", err
	}

	defs := make([]string, 0, len(table.Columns))
	cols := make([]string, 0, len(table.Columns))
	for _, c := range table.Columns {
		col, err := quoteIdent(c.Name)
		if err != nil {
			return nil, "", "", err
		}
		switch c.Type {
		case models.ColumnText, models.ColumnInteger, models.ColumnDouble:
		default:
			return nil, "", "", fmt.Errorf("%w: column %s has unsupported type %q", ErrMalformedTable, c.Name, c.Type)
		}
		defs = append(defs, col+" "+string(c.Type))
		cols = append(cols, col)
	}

	for i, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return nil, "", "", fmt.Errorf("%w: %s row %d has %d values, want %d",
				ErrMalformedTable, table.Name, i, len(row), len(table.Columns))
		}
	}

	ddl = []string{
		"DROP TABLE IF EXISTS " + name,
		"CREATE TABLE " + name + " (" + strings.Join(defs, ", ") + ")",
	}
	insertPrefix = "INSERT INTO " + name + " (" + strings.Join(cols, ", ") + ") VALUES "
	rowPlaceholder = "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	return ddl, insertPrefix, rowPlaceholder, nil
}

func insertRows(ctx context.Context, tx *sql.Tx, table *models.Table, prefix, rowPlaceholder string) error {
	for start := 0; start < len(table.Rows); start += insertBatchRows {
		end := start + insertBatchRows
		if end > len(table.Rows) {
			end = len(table.Rows)
		}
		batch := table.Rows[start:end]

		groups := make([]string, len(batch))
		args := make([]any, 0, len(batch)*len(table.Columns))
		for i, row := range batch {
			groups[i] = rowPlaceholder
			args = append(args, row...)
		}

		if _, err := tx.ExecContext(ctx, prefix+strings.Join(groups, ", "), args...); err != nil {
			return fmt.Errorf("failed to insert rows %d-%d into %s: %w", start, end-1, table.Name, err)
		}
	}
	return nil
}

// TableCounts returns the row count of every star-schema table that exists.
func (db *DB) TableCounts(ctx context.Context) (map[string]int, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = 'main'")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	existing := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			closeQuietly(rows)
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		existing[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	closeWithLog(rows, "table list rows")

	counts := make(map[string]int, len(models.StarSchemaTables))
	for _, name := range models.StarSchemaTables {
		if !existing[name] {
			continue
		}
		quoted, err := quoteIdent(name)
		if err != nil {
			return nil, err
		}
		var n int
		if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoted).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", name, err)
		}
		counts[name] = n
	}
	return counts, nil
}
