// Package export writes recorded evaluation history to Parquet files using
// github.com/parquet-go/parquet-go.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/specvital/metashift/pkg/history"
)

// ErrNoHistory is returned when there is nothing to export.
var ErrNoHistory = errors.New("export: no recorded runs")

// RunRow is one recorded run.
type RunRow struct {
	RunID      int64     `parquet:"run_id,snappy"`
	ReportRoot string    `parquet:"report_root,snappy"`
	StartedAt  time.Time `parquet:"started_at,snappy"`
	DurationMs int64     `parquet:"duration_ms,snappy"`
	Recipes    int32     `parquet:"recipes,snappy"`
	Qualified  bool      `parquet:"qualified,snappy"`
}

// EvaluationRow is one metric outcome of a run. Recipe is null for the run's
// aggregate.
type EvaluationRow struct {
	RunID       int64   `parquet:"run_id,snappy"`
	Recipe      *string `parquet:"recipe,optional,snappy"`
	Metric      string  `parquet:"metric,snappy"`
	Available   bool    `parquet:"available,snappy"`
	Denominator int64   `parquet:"denominator,snappy"`
	Numerator   int64   `parquet:"numerator,snappy"`
	Ratio       float64 `parquet:"ratio,snappy"`
	Threshold   float64 `parquet:"threshold,snappy"`
	Qualified   bool    `parquet:"qualified,snappy"`
}

// Source is the history an export reads from.
type Source interface {
	List(ctx context.Context, limit int) ([]history.Run, error)
	Evaluations(ctx context.Context) ([]history.EvaluationRecord, error)
}

// Result reports what an export wrote.
type Result struct {
	RunsFile        string
	Runs            int
	EvaluationsFile string
	Evaluations     int
}

// ConvertRuns maps recorded runs to rows, oldest first.
func ConvertRuns(runs []history.Run) []RunRow {
	rows := make([]RunRow, len(runs))
	for i, r := range runs {
		rows[len(runs)-1-i] = RunRow{
			RunID:      r.ID,
			ReportRoot: r.Root,
			StartedAt:  r.StartedAt,
			DurationMs: r.Duration.Milliseconds(),
			Recipes:    int32(r.Recipes),
			Qualified:  r.Qualified,
		}
	}
	return rows
}

// ConvertEvaluations maps stored evaluation records to rows.
func ConvertEvaluations(records []history.EvaluationRecord) []EvaluationRow {
	rows := make([]EvaluationRow, len(records))
	for i, r := range records {
		var recipe *string
		if r.Recipe != "" {
			recipe = &r.Recipe
		}
		rows[i] = EvaluationRow{
			RunID:       r.RunID,
			Recipe:      recipe,
			Metric:      r.Metric,
			Available:   r.Available,
			Denominator: r.Denominator,
			Numerator:   r.Numerator,
			Ratio:       r.Ratio,
			Threshold:   r.Threshold,
			Qualified:   r.Qualified,
		}
	}
	return rows
}

// Write encodes rows as a Parquet file to w.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

func writeFile[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Export writes prefix.runs.parquet and prefix.evaluations.parquet from src.
func Export(ctx context.Context, src Source, prefix string) (Result, error) {
	if prefix == "" {
		return Result{}, errors.New("export: output prefix is required")
	}

	runs, err := src.List(ctx, 0)
	if err != nil {
		return Result{}, fmt.Errorf("failed to retrieve runs: %w", err)
	}
	if len(runs) == 0 {
		return Result{}, ErrNoHistory
	}
	records, err := src.Evaluations(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to retrieve evaluations: %w", err)
	}

	res := Result{
		RunsFile:        prefix + ".runs.parquet",
		Runs:            len(runs),
		EvaluationsFile: prefix + ".evaluations.parquet",
		Evaluations:     len(records),
	}
	if err := writeFile(res.RunsFile, ConvertRuns(runs)); err != nil {
		return Result{}, fmt.Errorf("failed to write runs: %w", err)
	}
	if err := writeFile(res.EvaluationsFile, ConvertEvaluations(records)); err != nil {
		return Result{}, fmt.Errorf("failed to write evaluations: %w", err)
	}
	return res, nil
}
