// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/filmdash/internal/config"
	"github.com/tomtom215/filmdash/internal/database"
	"github.com/tomtom215/filmdash/internal/etl"
	"github.com/tomtom215/filmdash/internal/logging"
	"github.com/tomtom215/filmdash/internal/models"
)

type rootOptions struct {
	source   string
	dbPath   string
	logLevel string
	jsonOut  bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "filmdash-etl",
		Short:         "Load the movie CSV into the DuckDB star schema",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.source, "source", "", "Source CSV path (default: MOVIES_CSV_PATH)")
	flags.StringVar(&opts.dbPath, "db", "", "DuckDB path (default: DUCKDB_PATH)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (default: LOG_LEVEL)")
	flags.BoolVar(&opts.jsonOut, "json", false, "Print results as JSON")

	cmd.AddCommand(newRunCmd(opts), newInspectCmd(opts), newStatusCmd(opts))
	return cmd
}

// load reads the configuration and applies flag overrides.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if o.source != "" {
		cfg.Source.CSVPath = o.source
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.logLevel != "" {
		if !logging.ValidLevel(o.logLevel) {
			return fmt.Errorf("invalid --log-level %q", o.logLevel)
		}
		cfg.Logging.Level = o.logLevel
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    cmd.ErrOrStderr(),
	})
	o.cfg = cfg
	return nil
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the ETL and replace every star-schema table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.New(&opts.cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					logging.Error().Err(cerr).Msg("Error closing database")
				}
			}()

			out := cmd.OutOrStdout()
			runner := etl.NewRunner(opts.cfg.Source.CSVPath, db)
			if !opts.jsonOut {
				runner.OnTable(func(t models.TableResult) {
					fmt.Fprintf(out, "%-22s %8d rows %6d ms\n", t.Table, t.Rows, t.DurationMS)
				})
			}

			stats, runErr := runner.Run(cmd.Context())
			if stats != nil {
				if err := printSummary(out, stats.ToSummary(), opts.jsonOut); err != nil {
					return err
				}
			}
			return runErr
		},
	}
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Normalize the CSV and report table sizes without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner := etl.NewRunner(opts.cfg.Source.CSVPath, nil)
			stats, ts, err := runner.DryRun(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, stats.ToSummary())
			}
			for _, t := range stats.Tables {
				fmt.Fprintf(out, "%-22s %8d rows\n", t.Table, t.Rows)
			}
			if ts.MetascoreMode != nil {
				fmt.Fprintf(out, "metascore mode: %g\n", *ts.MetascoreMode)
			} else {
				fmt.Fprintln(out, "metascore mode: none")
			}
			fmt.Fprintf(out, "source rows: %d\n", stats.SourceRows)
			return nil
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the row count of every star-schema table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.New(&opts.cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					logging.Error().Err(cerr).Msg("Error closing database")
				}
			}()

			counts, err := db.TableCounts(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, counts)
			}
			for _, name := range models.StarSchemaTables {
				n, ok := counts[name]
				if !ok {
					fmt.Fprintf(out, "%-22s %8s\n", name, "missing")
					continue
				}
				fmt.Fprintf(out, "%-22s %8d rows\n", name, n)
			}
			return nil
		},
	}
}

func printSummary(w io.Writer, s *models.RunSummary, asJSON bool) error {
	if asJSON {
		return writeJSON(w, s)
	}
	fmt.Fprintf(w, "run %s %s: %d source rows, %d tables in %d ms\n",
		s.RunID, s.Status, s.SourceRows, len(s.Tables), s.DurationMS)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
