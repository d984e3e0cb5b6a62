// Package checkcache parses the build cache report (checkcache/caches.json) into
// premirror and shared-state cache records.
package checkcache

import (
	"encoding/json"

	"github.com/specvital/metashift/pkg/domain"
	"github.com/specvital/metashift/pkg/parser/strategies"
	"github.com/specvital/metashift/pkg/parser/strategies/shared/reportfile"
)

const (
	ReportFile = "checkcache/caches.json"

	PremirrorName   = "premirror-cache"
	SharedStateName = "shared-state-cache"
)

func init() {
	for _, s := range NewStrategies() {
		strategies.Register(s)
	}
}

// NewStrategies returns the premirror and shared-state cache strategies.
func NewStrategies() []strategies.Strategy {
	return []strategies.Strategy{
		reportfile.NewJSONStrategy(PremirrorName, ReportFile,
			decoder("Premirror", domain.NewPremirrorCache), domain.TypePremirrorCache),
		reportfile.NewJSONStrategy(SharedStateName, ReportFile,
			decoder("Shared State", domain.NewSharedStateCache), domain.TypeSharedStateCache),
	}
}

// lookups lists the signatures found in and missed from one cache.
type lookups struct {
	Found  []string `json:"Found"`
	Missed []string `json:"Missed"`
}

func decoder(key string, create func(recipe, signature string, available bool) domain.CacheData) reportfile.DecodeFunc {
	return func(r *reportfile.Report, obj map[string]json.RawMessage, recipe string) ([]domain.Data, bool, error) {
		raw, ok := obj[key]
		if !ok {
			return nil, false, nil
		}
		var l lookups
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, true, r.Malformed("%q: %w", key, err)
		}

		records := make([]domain.Data, 0, len(l.Found)+len(l.Missed))
		for _, sig := range l.Found {
			records = append(records, create(recipe, sig, true))
		}
		for _, sig := range l.Missed {
			records = append(records, create(recipe, sig, false))
		}
		return records, true, nil
	}
}
