package reportfile

import (
	"context"
	"encoding/json"

	"github.com/specvital/metashift/pkg/domain"
	"github.com/specvital/metashift/pkg/parser/strategies"
)

// DecodeFunc turns the members of a JSON report into records of recipe.
// ok is false when the category's top-level member is missing, which makes the
// category absent.
type DecodeFunc func(r *Report, obj map[string]json.RawMessage, recipe string) (records []domain.Data, ok bool, err error)

// JSONStrategy is a Strategy backed by a single JSON report file.
type JSONStrategy struct {
	StrategyName string
	// File is the report path relative to the recipe directory, slash separated.
	File     string
	Markers  []domain.Type
	Decode   DecodeFunc
	priority int
}

// NewJSONStrategy returns a JSON strategy marking the given families when the
// report is present.
func NewJSONStrategy(name, file string, decode DecodeFunc, markers ...domain.Type) *JSONStrategy {
	return &JSONStrategy{
		StrategyName: name,
		File:         file,
		Markers:      markers,
		Decode:       decode,
		priority:     strategies.DefaultPriority,
	}
}

// WithPriority overrides the scheduling priority.
func (s *JSONStrategy) WithPriority(p int) *JSONStrategy {
	s.priority = p
	return s
}

func (s *JSONStrategy) Name() string  { return s.StrategyName }
func (s *JSONStrategy) Priority() int { return s.priority }

func (s *JSONStrategy) Family() domain.Type {
	return Family(s.Markers)
}

func (s *JSONStrategy) Parse(ctx context.Context, src strategies.Source) ([]domain.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, obj, err := ReadObject(src, s.File)
	if err != nil || r == nil {
		return nil, err
	}

	var records []domain.Data
	if !r.Blank() {
		var ok bool
		records, ok, err = s.Decode(r, obj, src.Recipe)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}
	return WithMarkers(records, src.Recipe, s.Markers...), nil
}

type decoded struct {
	report *Report
	obj    map[string]json.RawMessage
}

// ReadObject reads name and decodes it as a JSON object. Strategies sharing
// src.Memo read and decode the file once; decoders must not modify obj.
func ReadObject(src strategies.Source, name string) (*Report, map[string]json.RawMessage, error) {
	v, err := src.Memo.Do("json:"+name, func() (any, error) {
		r, err := Read(src, name)
		if err != nil || r == nil {
			return decoded{}, err
		}
		obj, err := r.Object()
		if err != nil {
			return decoded{}, err
		}
		return decoded{report: r, obj: obj}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	d := v.(decoded)
	return d.report, d.obj, nil
}

// WithMarkers appends a category-present marker per family to records.
func WithMarkers(records []domain.Data, recipe string, families ...domain.Type) []domain.Data {
	for _, f := range families {
		records = append(records, domain.NewMarker(recipe, f))
	}
	return records
}

// Family returns the common family of the given types: the type itself when
// there is one, or the shared parent of sibling variants.
func Family(types []domain.Type) domain.Type {
	switch len(types) {
	case 0:
		return domain.TypeUnknown
	case 1:
		return types[0]
	}
	parent := types[0].Parent()
	for _, t := range types[1:] {
		if t.Parent() != parent {
			return domain.TypeUnknown
		}
	}
	return parent
}
