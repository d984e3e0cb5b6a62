package metrics

import "github.com/specvital/metashift/pkg/domain"

// Size is the code size of a source.
type Size struct {
	Recipes   int64 `json:"recipes"`
	Files     int64 `json:"files"`
	Lines     int64 `json:"lines"`
	Functions int64 `json:"functions"`
	Classes   int64 `json:"classes"`
}

// SizeOf totals the code size records of src. Recipes counts the distinct
// recipes owning at least one source file.
func SizeOf(src Source) Size {
	var s Size
	recipes := make(map[string]struct{})
	for d := range objectsOf[domain.CodeSizeData](src, domain.TypeCodeSize) {
		recipes[d.Recipe] = struct{}{}
		s.Files++
		s.Lines += d.Lines
		s.Functions += d.Functions
		s.Classes += d.Classes
	}
	s.Recipes = int64(len(recipes))
	return s
}

// Delta returns latter minus former, field by field.
func (s Size) Delta(former Size) Size {
	return Size{
		Recipes:   s.Recipes - former.Recipes,
		Files:     s.Files - former.Files,
		Lines:     s.Lines - former.Lines,
		Functions: s.Functions - former.Functions,
		Classes:   s.Classes - former.Classes,
	}
}
