// Package strategies provides the strategy pattern implementation for report parsing.
// Each report category (code size, violations, caches, coverage, ...) has its own strategy.
package strategies

import (
	"context"
	"io/fs"
	"sort"
	"sync"

	"github.com/specvital/metashift/pkg/domain"
)

// DefaultPriority is the default priority for strategies.
// Higher priority strategies are scheduled first.
const DefaultPriority = 100

var defaultRegistry = &Registry{}

// Source is the recipe directory a strategy reads from.
type Source struct {
	// FS is rooted at the recipe directory.
	FS fs.FS
	// Recipe is the recipe triple, used as the owning name of every record.
	Recipe string
	// Root is the recipe directory path, used in error messages.
	Root string
	// Memo shares decoded reports between the strategies of one recipe.
	// Nil disables sharing.
	Memo *Memo
}

// Strategy defines the interface for category-specific report parsers.
type Strategy interface {
	// Name returns the strategy identifier (e.g., "code-size", "premirror-cache").
	Name() string
	// Priority returns the strategy priority (higher = scheduled first).
	Priority() int
	// Family returns the record family this strategy produces.
	Family() domain.Type
	// Parse reads the strategy's report from src.
	// An absent report yields no records and no marker. A present report yields a
	// category-present marker plus its records. A malformed report returns a
	// *domain.MalformedReportError.
	Parse(ctx context.Context, src Source) ([]domain.Data, error)
}

// Registry manages registered strategies.
type Registry struct {
	mu         sync.RWMutex
	strategies []Strategy
}

// NewRegistry creates a new empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewRegistryWith creates a registry holding the given strategies.
func NewRegistryWith(s ...Strategy) *Registry {
	r := NewRegistry()
	for _, st := range s {
		r.Register(st)
	}
	return r
}

// DefaultRegistry returns the global default registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a strategy to the default registry.
func Register(s Strategy) {
	defaultRegistry.Register(s)
}

// GetStrategies returns all registered strategies from the default registry.
func GetStrategies() []Strategy {
	return defaultRegistry.GetStrategies()
}

// Register adds a strategy to the registry.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies = append(r.strategies, s)
	r.sortByPriority()
}

func (r *Registry) sortByPriority() {
	sort.SliceStable(r.strategies, func(i, j int) bool {
		return r.strategies[i].Priority() > r.strategies[j].Priority()
	})
}

// GetStrategies returns a copy of all registered strategies.
func (r *Registry) GetStrategies() []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Strategy, len(r.strategies))
	copy(result, r.strategies)
	return result
}

// Len returns the number of registered strategies.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.strategies)
}

// Clear removes all registered strategies.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies = nil
}

// FindByName returns the strategy with the given name.
func (r *Registry) FindByName(name string) Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.strategies {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// FindByFamily returns the strategies producing records of family f.
func (r *Registry) FindByFamily(f domain.Type) []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Strategy
	for _, s := range r.strategies {
		if s.Family().Related(f) {
			out = append(out, s)
		}
	}
	return out
}

// FindStrategyByName returns the strategy with the given name from the default registry.
func FindStrategyByName(name string) Strategy {
	return defaultRegistry.FindByName(name)
}
