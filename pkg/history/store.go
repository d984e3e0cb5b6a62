package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/specvital/metashift/pkg/metrics"
)

const (
	runsTable        = "metashift_runs"
	evaluationsTable = "metashift_evaluations"
)

// Run is one recorded evaluation of a report root.
type Run struct {
	ID        int64          `json:"id"`
	Root      string         `json:"root"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
	Recipes   int            `json:"recipes"`
	Qualified bool           `json:"qualified"`
	Report    metrics.Report `json:"report"`
}

// EvaluationRecord is one stored metric outcome. Recipe is empty for the
// aggregate of a run.
type EvaluationRecord struct {
	RunID       int64
	Recipe      string
	Metric      string
	Available   bool
	Denominator int64
	Numerator   int64
	Ratio       float64
	Threshold   float64
	Qualified   bool
}

// Store persists runs in a SQL database. A Store on NoneBackend records nothing.
type Store struct {
	db      *sql.DB
	backend Backend
}

// Open connects to backend and migrates the schema to the latest version.
// An empty dsn selects DefaultSQLitePath for the sqlite backend.
func Open(ctx context.Context, backend Backend, dsn string) (*Store, error) {
	if backend == NoneBackend {
		return &Store{backend: backend}, nil
	}

	db, err := openDB(ctx, backend, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := migrateDB(db, backend, -1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return &Store{db: db, backend: backend}, nil
}

// Migrate opens backend and moves its schema to target (see migrateDB).
func Migrate(ctx context.Context, backend Backend, dsn string, target int) (Migration, error) {
	if backend == NoneBackend {
		return Migration{}, fmt.Errorf("%w: migrations are not supported for the none backend", ErrDisabled)
	}
	db, err := openDB(ctx, backend, dsn)
	if err != nil {
		return Migration{}, err
	}
	defer func() { _ = db.Close() }()

	return migrateDB(db, backend, target)
}

func openDB(ctx context.Context, backend Backend, dsn string) (*sql.DB, error) {
	switch backend {
	case SQLiteBackend:
		if dsn == "" {
			dsn = DefaultSQLitePath()
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
	case MySQLBackend, PostgreSQLBackend:
		if dsn == "" {
			return nil, fmt.Errorf("history: %s backend requires a connection string", backend)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, backend)
	}

	db, err := sql.Open(backend.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == SQLiteBackend {
		// One connection keeps :memory: databases alive and avoids "database is locked".
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	return db, nil
}

// Backend returns the store's backend.
func (s *Store) Backend() Backend { return s.backend }

// Enabled reports whether the store persists anything.
func (s *Store) Enabled() bool { return s.db != nil }

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores run with its aggregate and per-recipe evaluations and returns the
// assigned ID. On NoneBackend it returns 0.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}

	report, err := json.Marshal(run.Report)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	args := []any{run.Root, run.StartedAt.UnixMilli(), run.Duration.Milliseconds(), run.Recipes, run.Qualified, string(report)}
	var id int64
	insert := "INSERT INTO " + runsTable + " (report_root, started_at, duration_ms, recipes, qualified, report) VALUES (?, ?, ?, ?, ?, ?)"
	if s.backend == PostgreSQLBackend {
		err = tx.QueryRowContext(ctx, s.bind(insert+" RETURNING run_id"), args...).Scan(&id)
	} else {
		var res sql.Result
		res, err = tx.ExecContext(ctx, insert, args...)
		if err == nil {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.bind("INSERT INTO "+evaluationsTable+
		" (run_id, recipe, metric, available, denominator, numerator, ratio, threshold, qualified) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare evaluation insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	insertSummary := func(recipe string, summary metrics.Summary) error {
		for _, e := range summary.Evaluations {
			if _, err := stmt.ExecContext(ctx, id, recipe, string(e.Metric), e.Available,
				e.Denominator, e.Numerator, e.Ratio.Value, e.Threshold.Value, e.Qualified()); err != nil {
				return fmt.Errorf("failed to insert evaluation %s/%s: %w", recipe, e.Metric, err)
			}
		}
		return nil
	}
	if err := insertSummary("", run.Report.Summary); err != nil {
		return 0, err
	}
	for _, rs := range run.Report.Recipes {
		if err := insertSummary(rs.Recipe, rs.Summary); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// Latest returns the most recent run recorded for root, or ErrNoRuns.
func (s *Store) Latest(ctx context.Context, root string) (*Run, error) {
	if !s.Enabled() {
		return nil, ErrNoRuns
	}
	runs, err := s.query(ctx, " WHERE report_root = ? ORDER BY run_id DESC LIMIT 1", root)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}
	return &runs[0], nil
}

// List returns up to limit runs, newest first. A non-positive limit returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if !s.Enabled() {
		return nil, nil
	}
	clause := " ORDER BY run_id DESC"
	if limit > 0 {
		clause += " LIMIT " + strconv.Itoa(limit)
	}
	return s.query(ctx, clause)
}

func (s *Store) query(ctx context.Context, clause string, args ...any) ([]Run, error) {
	q := "SELECT run_id, report_root, started_at, duration_ms, recipes, qualified, report FROM " + runsTable + clause
	rows, err := s.db.QueryContext(ctx, s.bind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			startedAt  int64
			durationMs int64
			report     string
		)
		if err := rows.Scan(&r.ID, &r.Root, &startedAt, &durationMs, &r.Recipes, &r.Qualified, &report); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedAt).UTC()
		r.Duration = time.Duration(durationMs) * time.Millisecond
		if err := json.Unmarshal([]byte(report), &r.Report); err != nil {
			return nil, fmt.Errorf("run %d: failed to decode report: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

// Evaluations returns every stored metric outcome ordered by run, recipe and metric.
func (s *Store) Evaluations(ctx context.Context) ([]EvaluationRecord, error) {
	if !s.Enabled() {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, "SELECT run_id, recipe, metric, available, denominator, numerator, ratio, threshold, qualified FROM "+
		evaluationsTable+" ORDER BY run_id, recipe, metric")
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []EvaluationRecord
	for rows.Next() {
		var r EvaluationRecord
		if err := rows.Scan(&r.RunID, &r.Recipe, &r.Metric, &r.Available, &r.Denominator, &r.Numerator, &r.Ratio, &r.Threshold, &r.Qualified); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Clear deletes every recorded run.
func (s *Store) Clear(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	for _, table := range []string{evaluationsTable, runsTable} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// bind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) bind(query string) string {
	if s.backend != PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Baseline returns the report of the latest run for root, or nil when none exists.
func (s *Store) Baseline(ctx context.Context, root string) (*metrics.Report, error) {
	run, err := s.Latest(ctx, root)
	if errors.Is(err, ErrNoRuns) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run.Report, nil
}
