// Package cli defines the metashift command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/specvital/metashift/pkg/history"
	"github.com/specvital/metashift/pkg/parser"

	_ "github.com/specvital/metashift/pkg/parser/strategies/all"
)

// Version is set by the linker at build time.
var Version = "dev"

// ErrNotQualified is returned by check when the report fails its criteria.
var ErrNotQualified = errors.New("cli: report is not qualified")

// Exit codes returned by ExitCode.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitNotQualified = 2
)

type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer
	s      *settings
}

// NewRootCommand builds the command tree. Command output goes to stdout, logs
// to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "metashift",
		Short: "Evaluate build-quality reports against quality criteria.",
		Long: `Metashift ingests the per-recipe quality reports of a build (static analysis,
cache usage, unit tests, coverage and mutation testing) and qualifies every
metric against configurable thresholds.`,
		Version:            Version,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is .metashift.yaml in . or $HOME)")
	flags.Int("workers", 0, "concurrent recipe parsers (0 uses GOMAXPROCS)")
	flags.Duration("timeout", parser.DefaultTimeout, "maximum duration of an ingestion")
	flags.Bool("strict", false, "fail on recipe directories that are not name-version-release")
	flags.StringSlice("exclude", nil, "glob patterns of recipe directories to skip")
	flags.String("criteria", "", "YAML file with metric thresholds")
	flags.StringP("output", "o", "table", "output format: table, json, or csv")
	flags.Int("precision", defaultPrecision, "decimal places for ratios")
	flags.String("color", "auto", "colorize table output: auto, yes, or no")
	flags.Int("width", 0, "override the detected terminal width")
	flags.Bool("recipes", false, "include the per-recipe breakdown")
	flags.String("history-backend", string(history.SQLiteBackend), "history backend: sqlite, mysql, postgresql, or none")
	flags.String("history-db-connect", "", "history connection string (sqlite defaults to ~/.metashift/history.db)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("log-format", "text", "log format: text or json")
	_ = a.v.BindPFlags(flags)

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.newParseCmd(),
		a.newEvaluateCmd(),
		a.newCheckCmd(),
		a.newHistoryCmd(),
		a.newExportCmd(),
		a.newMCPCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := loadConfig(a.v)
	if err != nil {
		return err
	}
	s, err := validate(cfg, a.stderr)
	if err != nil {
		return err
	}
	a.s = s
	return nil
}

func (a *app) openHistory(ctx context.Context) (*history.Store, error) {
	store, err := history.Open(ctx, a.s.backend, a.s.raw.HistoryDBConnect)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "metashift %s\n", Version)
			return err
		},
	}
}

// Execute runs the command line in args and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCommand(os.Stdout, os.Stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return ExitCode(err)
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrNotQualified):
		return ExitNotQualified
	default:
		return ExitError
	}
}
