package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	"github.com/specvital/metashift/internal/outwriter"
	"github.com/specvital/metashift/pkg/history"
	"github.com/specvital/metashift/pkg/metrics"
	"github.com/specvital/metashift/pkg/parser"
)

const (
	configName = ".metashift"
	envPrefix  = "METASHIFT"

	defaultPrecision = 2
)

// Config holds the raw configuration merged from flags, METASHIFT_* environment
// variables and the .metashift.yaml file, in that order of precedence.
type Config struct {
	Workers          int           `mapstructure:"workers"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Strict           bool          `mapstructure:"strict"`
	Exclude          []string      `mapstructure:"exclude"`
	Criteria         string        `mapstructure:"criteria"`
	Output           string        `mapstructure:"output"`
	Precision        int           `mapstructure:"precision"`
	Color            string        `mapstructure:"color"`
	Width            int           `mapstructure:"width"`
	Recipes          bool          `mapstructure:"recipes"`
	HistoryBackend   string        `mapstructure:"history-backend"`
	HistoryDBConnect string        `mapstructure:"history-db-connect"`
	Verbose          bool          `mapstructure:"verbose"`
	LogFormat        string        `mapstructure:"log-format"`
}

// settings is the validated form of Config.
type settings struct {
	raw      Config
	criteria metrics.Criteria
	output   outwriter.Config
	backend  history.Backend
	logger   *slog.Logger
}

// loadConfig reads the config file into v and unmarshals every resolved value.
func loadConfig(v *viper.Viper) (Config, error) {
	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return cfg, nil
}

// validate resolves cfg into settings. Logs go to logOut.
func validate(cfg Config, logOut io.Writer) (*settings, error) {
	format, err := outwriter.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}
	useColors, err := resolveColor(cfg.Color)
	if err != nil {
		return nil, err
	}
	backend, err := history.ParseBackend(cfg.HistoryBackend)
	if err != nil {
		return nil, err
	}
	criteria, err := metrics.LoadCriteria(cfg.Criteria)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(logOut, cfg.Verbose, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	if cfg.Precision < 0 {
		return nil, fmt.Errorf("precision must be non-negative, got %d", cfg.Precision)
	}

	return &settings{
		raw:      cfg,
		criteria: criteria,
		output: outwriter.Config{
			Format:    format,
			Precision: cfg.Precision,
			UseColors: useColors,
			Width:     cfg.Width,
			Recipes:   cfg.Recipes,
		},
		backend: backend,
		logger:  logger,
	}, nil
}

func resolveColor(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return !color.NoColor, nil
	case "yes", "always", "true":
		return true, nil
	case "no", "never", "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid color mode %q. Must be auto, yes, or no", mode)
	}
}

func newLogger(w io.Writer, verbose bool, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q. Must be text or json", format)
	}
}

func (s *settings) ingestOptions() []parser.IngestOption {
	return []parser.IngestOption{
		parser.WithWorkers(s.raw.Workers),
		parser.WithTimeout(s.raw.Timeout),
		parser.WithStrict(s.raw.Strict),
		parser.WithExcludePatterns(s.raw.Exclude),
		parser.WithLogger(s.logger),
	}
}
