package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/specvital/metashift/internal/outwriter"
	"github.com/specvital/metashift/pkg/history"
	"github.com/specvital/metashift/pkg/metrics"
	"github.com/specvital/metashift/pkg/parser"
)

func (a *app) newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <report-root>",
		Short: "Ingest a report root and list its recipes",
		Long: `Ingest every recipe directory under the report root and print what each
recipe carries. Recipes without any report are removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := parser.Ingest(cmd.Context(), args[0], a.s.ingestOptions()...)
			if err != nil {
				return err
			}
			return outwriter.WriteIngest(a.stdout, result, a.s.output)
		},
	}
}

func (a *app) newEvaluateCmd() *cobra.Command {
	var noRecord bool
	cmd := &cobra.Command{
		Use:   "evaluate <report-root>",
		Short: "Qualify every metric of a report root",
		Long: `Ingest the report root, qualify every metric against the criteria and record
the run in the history. Differences are reported against the previous run of
the same report root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.evaluate(cmd.Context(), args[0], !noRecord)
			if err != nil {
				return err
			}
			return outwriter.WriteReport(a.stdout, report, a.s.output)
		},
	}
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "do not record the run in the history")
	return cmd
}

func (a *app) newCheckCmd() *cobra.Command {
	var record bool
	cmd := &cobra.Command{
		Use:   "check <report-root>",
		Short: "Fail when a report root is not qualified",
		Long: `Evaluate the report root like evaluate and exit with status 2 when any
available metric misses its threshold. The run is not recorded unless --record
is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.evaluate(cmd.Context(), args[0], record)
			if err != nil {
				return err
			}
			if err := outwriter.WriteReport(a.stdout, report, a.s.output); err != nil {
				return err
			}
			if !report.Qualified {
				return ErrNotQualified
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&record, "record", false, "record the run in the history")
	return cmd
}

// evaluate ingests root, applies the history baseline and optionally records the run.
func (a *app) evaluate(ctx context.Context, root string, record bool) (metrics.Report, error) {
	start := time.Now()

	abs, err := filepath.Abs(root)
	if err != nil {
		return metrics.Report{}, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	result, err := parser.Ingest(ctx, abs, a.s.ingestOptions()...)
	if err != nil {
		return metrics.Report{}, err
	}
	report := metrics.EvaluateRecipes(result.Recipes, a.s.criteria)

	store, err := a.openHistory(ctx)
	if err != nil {
		return metrics.Report{}, err
	}
	defer func() { _ = store.Close() }()

	baseline, err := store.Baseline(ctx, abs)
	if err != nil {
		return metrics.Report{}, fmt.Errorf("failed to load baseline: %w", err)
	}
	if baseline != nil {
		report.SetDifference(*baseline)
	}

	if record {
		id, err := store.Record(ctx, history.Run{
			Root:      abs,
			StartedAt: start,
			Duration:  time.Since(start),
			Recipes:   result.Recipes.Len(),
			Qualified: report.Qualified,
			Report:    report,
		})
		if err != nil {
			return metrics.Report{}, fmt.Errorf("failed to record run: %w", err)
		}
		a.s.logger.Debug("recorded run", "id", id, "backend", store.Backend())
	}
	return report, nil
}
