// Package checkrecipe parses the recipe linter reports: recipe violations
// (checkrecipe/recipe_violations.json) and recipe file sizes (checkrecipe/files.json).
package checkrecipe

import (
	"encoding/json"
	"strings"

	"github.com/specvital/metashift/pkg/domain"
	"github.com/specvital/metashift/pkg/parser/strategies"
	"github.com/specvital/metashift/pkg/parser/strategies/shared/reportfile"
)

const (
	ViolationsFile = "checkrecipe/recipe_violations.json"
	FilesFile      = "checkrecipe/files.json"

	RecipeViolationName = "recipe-violation"
	RecipeSizeName      = "recipe-size"
)

func init() {
	for _, s := range NewStrategies() {
		strategies.Register(s)
	}
}

// NewStrategies returns the recipe violation and recipe size strategies.
func NewStrategies() []strategies.Strategy {
	return []strategies.Strategy{
		reportfile.NewJSONStrategy(RecipeViolationName, ViolationsFile, decodeViolations, domain.TypeRecipeViolation),
		reportfile.NewJSONStrategy(RecipeSizeName, FilesFile, decodeSizes, domain.TypeRecipeSize),
	}
}

type issue struct {
	File        *string `json:"file"`
	Line        *int64  `json:"line"`
	Rule        *string `json:"rule"`
	Description string  `json:"description"`
	Severity    *string `json:"severity"`
}

type fileSize struct {
	File      *string `json:"file"`
	CodeLines int64   `json:"code_lines"`
}

var severities = map[string]domain.Type{
	"error":   domain.TypeMajorRecipeViolation,
	"warning": domain.TypeMinorRecipeViolation,
	"info":    domain.TypeInfoRecipeViolation,
}

func decodeViolations(r *reportfile.Report, obj map[string]json.RawMessage, recipe string) ([]domain.Data, bool, error) {
	const key = "issues"
	issues, ok, err := reportfile.Array[issue](r, obj, key)
	if err != nil || !ok {
		return nil, ok, err
	}

	records := make([]domain.Data, 0, len(issues))
	for i, o := range issues {
		file, err := reportfile.Require(r, key, i, "file", o.File)
		if err != nil {
			return nil, true, err
		}
		line, err := reportfile.Require(r, key, i, "line", o.Line)
		if err != nil {
			return nil, true, err
		}
		rule, err := reportfile.Require(r, key, i, "rule", o.Rule)
		if err != nil {
			return nil, true, err
		}
		severity, err := reportfile.Require(r, key, i, "severity", o.Severity)
		if err != nil {
			return nil, true, err
		}
		if domain.IsHiddenPath(file) {
			continue
		}
		t, known := severities[strings.ToLower(severity)]
		if !known {
			return nil, true, r.Malformed("%s[%d]: unknown severity value %q", key, i, severity)
		}
		records = append(records, domain.NewRecipeViolation(t, recipe, file, line, rule, o.Description, severity))
	}
	return records, true, nil
}

func decodeSizes(r *reportfile.Report, obj map[string]json.RawMessage, recipe string) ([]domain.Data, bool, error) {
	const key = "lines_of_code"
	sizes, ok, err := reportfile.Array[fileSize](r, obj, key)
	if err != nil || !ok {
		return nil, ok, err
	}

	records := make([]domain.Data, 0, len(sizes))
	for i, o := range sizes {
		file, err := reportfile.Require(r, key, i, "file", o.File)
		if err != nil {
			return nil, true, err
		}
		if domain.IsHiddenPath(file) {
			continue
		}
		records = append(records, domain.RecipeSizeData{Recipe: recipe, File: file, Lines: o.CodeLines})
	}
	return records, true, nil
}
