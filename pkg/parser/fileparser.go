package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/metashift/pkg/domain"
	"github.com/specvital/metashift/pkg/parser/strategies"
)

const (
	// DefaultWorkers indicates that the parser should use GOMAXPROCS as the worker count.
	DefaultWorkers = 0
	// DefaultTimeout is the default ingestion timeout duration.
	DefaultTimeout = 5 * time.Minute
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024
)

var (
	// ErrIngestCancelled is returned when ingestion is cancelled via context.
	ErrIngestCancelled = errors.New("parser: ingest cancelled")
	// ErrIngestTimeout is returned when ingestion exceeds the timeout duration.
	ErrIngestTimeout = errors.New("parser: ingest timeout")
)

// FileParser ingests a report root holding one directory per recipe.
type FileParser struct {
	registry *strategies.Registry
	options  *IngestOptions
}

// Result contains the outcome of an ingestion.
type Result struct {
	// Recipes holds the recipes that survived pruning, sorted by triple.
	Recipes *domain.RecipeCollection

	// Stats provides ingestion statistics.
	Stats IngestStats
}

// IngestStats provides statistics about the ingestion.
type IngestStats struct {
	// Found is the number of recipe directories discovered.
	Found int

	// Skipped is the number of visible directories ignored for an invalid name
	// or an exclude pattern.
	Skipped int

	// Removed is the number of recipes pruned for having no code size records.
	Removed int

	// Units is the number of strategy runs executed.
	Units int

	// Duration is the total ingestion duration.
	Duration time.Duration
}

// NewFileParser creates a new file parser with the given options.
func NewFileParser(opts ...IngestOption) *FileParser {
	options := &IngestOptions{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)

	return &FileParser{
		registry: options.Registry,
		options:  options,
	}
}

// Ingest performs the complete ingestion:
//  1. Discover recipe directories under root
//  2. Run every registered strategy on every recipe in parallel
//  3. Merge the per-unit records into one data list per recipe
//  4. Prune recipes without code size records and sort the rest
//
// The first malformed report aborts the run; no partial result is returned.
func (p *FileParser) Ingest(ctx context.Context, root string) (*Result, error) {
	startTime := time.Now()
	log := p.options.Logger

	ctx, cancel := context.WithTimeout(ctx, p.options.Timeout)
	defer cancel()

	dirs, skipped, err := p.discover(root)
	if err != nil {
		return nil, err
	}
	log.Info("found recipe data", "root", root, "count", len(dirs))

	recipes, units, err := p.parseParallel(ctx, dirs)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr)
		}
		return nil, err
	}

	collection := domain.NewRecipeCollection(recipes...)
	removed := collection.RemoveIf(func(r *domain.Recipe) bool {
		return !r.Contains(domain.TypeCodeSize)
	})
	collection.Sort()
	log.Info("recipe data removed", "count", removed)

	return &Result{
		Recipes: collection,
		Stats: IngestStats{
			Found:    len(dirs),
			Skipped:  skipped,
			Removed:  removed,
			Units:    units,
			Duration: time.Since(startTime),
		},
	}, nil
}

// ParseRecipe parses a single recipe directory. The directory name must be a
// valid recipe triple regardless of the strict setting. No pruning happens.
func (p *FileParser) ParseRecipe(ctx context.Context, dir string) (*domain.Recipe, error) {
	ctx, cancel := context.WithTimeout(ctx, p.options.Timeout)
	defer cancel()

	if err := checkDirectory(dir); err != nil {
		return nil, err
	}
	name := filepath.Base(dir)
	if !domain.IsRecipeName(name) {
		return nil, invalidName(dir, name)
	}

	recipes, _, err := p.parseParallel(ctx, []string{dir})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr)
		}
		return nil, err
	}
	return recipes[0], nil
}

// discover lists the recipe directories directly under root. Hidden directories
// are ignored without counting as skipped.
func (p *FileParser) discover(root string) ([]string, int, error) {
	if err := checkDirectory(root); err != nil {
		return nil, 0, err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, 0, &domain.ConfigurationError{Path: root, Reason: "cannot list directory", Err: err}
	}

	var (
		dirs    []string
		skipped int
	)
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(root, name)
		if !isDirectory(entry, path) || domain.IsHiddenPath(name) {
			continue
		}
		if matchesAnyPattern(name, p.options.ExcludePatterns) {
			p.options.Logger.Debug("excluded recipe directory", "dir", name)
			skipped++
			continue
		}
		if !domain.IsRecipeName(name) {
			if p.options.Strict {
				return nil, 0, invalidName(path, name)
			}
			p.options.Logger.Debug("skipped invalid recipe directory", "dir", name)
			skipped++
			continue
		}
		dirs = append(dirs, path)
	}
	return dirs, skipped, nil
}

// parseParallel runs every strategy on every directory through a bounded pool.
// Each unit writes to its own slot so no lock is taken while parsing.
func (p *FileParser) parseParallel(ctx context.Context, dirs []string) ([]*domain.Recipe, int, error) {
	workers := p.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	strategyList := p.registry.GetStrategies()
	results := make([][][]domain.Data, len(dirs))

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	for i, dir := range dirs {
		results[i] = make([][]domain.Data, len(strategyList))
		src := strategies.Source{
			FS:     os.DirFS(dir),
			Recipe: filepath.Base(dir),
			Root:   dir,
			Memo:   strategies.NewMemo(),
		}

		for j, s := range strategyList {
			g.Go(func() error {
				if err := sem.Acquire(gCtx, 1); err != nil {
					return err
				}
				defer sem.Release(1)

				records, err := s.Parse(gCtx, src)
				if err != nil {
					return err
				}
				results[i][j] = records
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	recipes := make([]*domain.Recipe, 0, len(dirs))
	for i, dir := range dirs {
		data := domain.NewDataList()
		for _, records := range results[i] {
			data.AddAll(records...)
		}
		recipe, err := domain.NewRecipeWithData(filepath.Base(dir), data)
		if err != nil {
			return nil, 0, invalidName(dir, filepath.Base(dir))
		}
		p.options.Logger.Debug("parsed recipe", "recipe", recipe.ID(), "records", data.Len())
		recipes = append(recipes, recipe)
	}

	// Directory listing order is platform dependent.
	sort.Slice(recipes, func(i, j int) bool {
		return recipes[i].ID() < recipes[j].ID()
	})

	return recipes, len(dirs) * len(strategyList), nil
}

func checkDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &domain.ConfigurationError{Path: path, Reason: "directory not found", Err: err}
		}
		return &domain.ConfigurationError{Path: path, Reason: "cannot access directory", Err: err}
	}
	if !info.IsDir() {
		return &domain.ConfigurationError{Path: path, Reason: "not a directory"}
	}
	return nil
}

func isDirectory(entry os.DirEntry, path string) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func invalidName(path, name string) error {
	return &domain.ConfigurationError{
		Path:   path,
		Reason: "invalid recipe name",
		Err:    fmt.Errorf("%w: %q", domain.ErrInvalidRecipeName, name),
	}
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrIngestTimeout
	}
	return ErrIngestCancelled
}

func matchesAnyPattern(name string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// Ingest is a convenience wrapper around NewFileParser(opts...).Ingest.
func Ingest(ctx context.Context, root string, opts ...IngestOption) (*Result, error) {
	return NewFileParser(opts...).Ingest(ctx, root)
}
