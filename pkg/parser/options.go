package parser

import (
	"log/slog"
	"time"

	"github.com/specvital/metashift/pkg/parser/strategies"
)

// IngestOptions configures FileParser behavior.
type IngestOptions struct {
	// ExcludePatterns specifies glob patterns (doublestar syntax) matched against
	// recipe directory names. Matching directories are skipped during discovery.
	ExcludePatterns []string

	// Logger receives progress messages. If nil, logging is discarded.
	Logger *slog.Logger

	// Registry is the strategy registry to use.
	// If nil, uses strategies.DefaultRegistry().
	Registry *strategies.Registry

	// Strict makes an invalid recipe directory name a ConfigurationError instead
	// of silently skipping the directory.
	Strict bool

	// Timeout is the maximum duration for the entire ingestion.
	// Zero or negative values use DefaultTimeout.
	Timeout time.Duration

	// Workers specifies the number of concurrent report parsers.
	// Zero or negative values use runtime.GOMAXPROCS(0).
	Workers int
}

// IngestOption is a functional option for configuring FileParser.
type IngestOption func(*IngestOptions)

// WithWorkers sets the number of concurrent report parsers.
// Negative values are ignored.
func WithWorkers(n int) IngestOption {
	return func(o *IngestOptions) {
		if n >= 0 {
			o.Workers = n
		}
	}
}

// WithTimeout sets the ingestion timeout duration.
// Negative values are ignored.
func WithTimeout(d time.Duration) IngestOption {
	return func(o *IngestOptions) {
		if d >= 0 {
			o.Timeout = d
		}
	}
}

// WithExcludePatterns sets recipe directory patterns to skip during discovery.
func WithExcludePatterns(patterns []string) IngestOption {
	return func(o *IngestOptions) {
		o.ExcludePatterns = patterns
	}
}

// WithRegistry sets the strategy registry to use.
func WithRegistry(registry *strategies.Registry) IngestOption {
	return func(o *IngestOptions) {
		o.Registry = registry
	}
}

// WithStrict enables or disables strict recipe name validation.
// Default: false (invalid names are skipped).
func WithStrict(strict bool) IngestOption {
	return func(o *IngestOptions) {
		o.Strict = strict
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) IngestOption {
	return func(o *IngestOptions) {
		o.Logger = logger
	}
}

func applyDefaults(opts *IngestOptions) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Registry == nil {
		opts.Registry = strategies.DefaultRegistry()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
}
