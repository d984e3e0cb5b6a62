package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specvital/metashift/internal/mcpserver"
	"github.com/specvital/metashift/internal/outwriter"
	"github.com/specvital/metashift/pkg/history"
	"github.com/specvital/metashift/pkg/history/export"
)

func (a *app) newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage recorded evaluation runs",
		Long: `Manage the evaluation history used as the baseline for differences.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None.

Examples:
  # List the ten latest runs
  metashift history list --limit 10

  # Roll the schema back to version 1
  metashift history migrate --target 1`,
	}
	cmd.AddCommand(a.newHistoryListCmd(), a.newHistoryMigrateCmd(), a.newHistoryClearCmd())
	return cmd
}

func (a *app) newHistoryListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return outwriter.WriteRuns(a.stdout, runs, a.s.output)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs (0 lists all)")
	return cmd
}

func (a *app) newHistoryMigrateCmd() *cobra.Command {
	var target int
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the history schema",
		Long: `Migrate the history schema. A negative target migrates to the latest version,
zero rolls back every migration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := history.Migrate(cmd.Context(), a.s.backend, a.s.raw.HistoryDBConnect, target)
			if err != nil {
				return err
			}
			if !m.Changed {
				_, err = fmt.Fprintf(a.stdout, "Schema already at version %d.\n", m.To)
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "Schema migrated from version %d to %d.\n", m.From, m.To)
			return err
		},
	}
	cmd.Flags().IntVar(&target, "target", -1, "target schema version")
	return cmd
}

func (a *app) newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, "History cleared.")
			return err
		},
	}
}

func (a *app) newExportCmd() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the history to Parquet files",
		Long: `Write the recorded runs to <prefix>.runs.parquet and every stored evaluation
to <prefix>.evaluations.parquet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			res, err := export.Export(cmd.Context(), store, prefix)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "Exported %d runs to %s and %d evaluations to %s.\n",
				res.Runs, res.RunsFile, res.Evaluations, res.EvaluationsFile)
			return err
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "metashift-history", "output file prefix")
	return cmd
}

func (a *app) newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve report evaluation over the Model Context Protocol (stdio)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return mcpserver.Serve(cmd.Context(), mcpserver.Config{
				Criteria: a.s.criteria,
				Ingest:   a.s.ingestOptions(),
				History:  store,
				Version:  Version,
			})
		},
	}
}
