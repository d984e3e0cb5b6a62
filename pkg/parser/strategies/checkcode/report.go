package checkcode

import (
	"encoding/json"
	"strings"

	"github.com/specvital/metashift/pkg/domain"
	"github.com/specvital/metashift/pkg/parser/strategies/shared/reportfile"
)

const (
	keySize         = "size"
	keyComplexity   = "complexity"
	keyViolations   = "violations"
	keyDuplications = "duplications"
)

type sizeEntry struct {
	File            *string `json:"file"`
	TotalLines      int64   `json:"total_lines"`
	CodeLines       int64   `json:"code_lines"`
	CommentLines    int64   `json:"comment_lines"`
	DuplicatedLines int64   `json:"duplicated_lines"`
	Functions       int64   `json:"functions"`
	Classes         int64   `json:"classes"`
}

type complexityEntry struct {
	File     *string `json:"file"`
	Function *string `json:"function"`
	Start    *int64  `json:"start"`
	End      *int64  `json:"end"`
	Value    *int64  `json:"value"`
}

type violationEntry struct {
	File        *string `json:"file"`
	Line        *int64  `json:"line"`
	Column      int64   `json:"column"`
	Rule        *string `json:"rule"`
	Message     string  `json:"message"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	Level       *string `json:"level"`
	Tool        string  `json:"tool"`
}

type duplicationBlock struct {
	File  *string `json:"file"`
	Start *int64  `json:"start"`
	End   *int64  `json:"end"`
}

func sizes(r *reportfile.Report, obj map[string]json.RawMessage) ([]sizeEntry, bool, error) {
	entries, ok, err := reportfile.Array[sizeEntry](r, obj, keySize)
	if err != nil || !ok {
		return nil, ok, err
	}
	for i := range entries {
		if _, err := reportfile.Require(r, keySize, i, "file", entries[i].File); err != nil {
			return nil, true, err
		}
	}
	return entries, true, nil
}

func decodeCodeSize(r *reportfile.Report, obj map[string]json.RawMessage, recipe string) ([]domain.Data, bool, error) {
	entries, ok, err := sizes(r, obj)
	if err != nil || !ok {
		return nil, ok, err
	}
	records := make([]domain.Data, 0, len(entries))
	for _, e := range entries {
		if domain.IsHiddenPath(*e.File) {
			continue
		}
		records = append(records, domain.CodeSizeData{
			Recipe:    recipe,
			File:      *e.File,
			Lines:     e.CodeLines,
			Functions: e.Functions,
			Classes:   e.Classes,
		})
	}
	return records, true, nil
}

func decodeComment(r *reportfile.Report, obj map[string]json.RawMessage, recipe string) ([]domain.Data, bool, error) {
	entries, ok, err := sizes(r, obj)
	if err != nil || !ok {
		return nil, ok, err
	}
	records := make([]domain.Data, 0, len(entries))
	for _, e := range entries {
		if domain.IsHiddenPath(*e.File) {
			continue
		}
		records = append(records, domain.CommentData{
			Recipe:       recipe,
			File:         *e.File,
			Lines:        e.TotalLines,
			CommentLines: e.CommentLines,
		})
	}
	return records, true, nil
}

// decodeComplexity keeps the last entry reported for a (file, function) pair.
func decodeComplexity(r *reportfile.Report, obj map[string]json.RawMessage, recipe string) ([]domain.Data, bool, error) {
	entries, ok, err := reportfile.Array[complexityEntry](r, obj, keyComplexity)
	if err != nil || !ok {
		return nil, ok, err
	}

	type fn struct{ file, function string }
	index := make(map[fn]int, len(entries))
	records := make([]domain.Data, 0, len(entries))
	for i, e := range entries {
		file, err := reportfile.Require(r, keyComplexity, i, "file", e.File)
		if err != nil {
			return nil, true, err
		}
		function, err := reportfile.Require(r, keyComplexity, i, "function", e.Function)
		if err != nil {
			return nil, true, err
		}
		start, err := reportfile.Require(r, keyComplexity, i, "start", e.Start)
		if err != nil {
			return nil, true, err
		}
		end, err := reportfile.Require(r, keyComplexity, i, "end", e.End)
		if err != nil {
			return nil, true, err
		}
		value, err := reportfile.Require(r, keyComplexity, i, "value", e.Value)
		if err != nil {
			return nil, true, err
		}
		if domain.IsHiddenPath(file) {
			continue
		}

		d := domain.ComplexityData{Recipe: recipe, File: file, Function: function, Start: start, End: end, Value: value}
		k := fn{file, function}
		if at, seen := index[k]; seen {
			records[at] = d
			continue
		}
		index[k] = len(records)
		records = append(records, d)
	}
	return records, true, nil
}

func decodeViolations(r *reportfile.Report, obj map[string]json.RawMessage, recipe string) ([]domain.Data, bool, error) {
	entries, ok, err := reportfile.Array[violationEntry](r, obj, keyViolations)
	if err != nil || !ok {
		return nil, ok, err
	}
	records := make([]domain.Data, 0, len(entries))
	for i, e := range entries {
		file, err := reportfile.Require(r, keyViolations, i, "file", e.File)
		if err != nil {
			return nil, true, err
		}
		line, err := reportfile.Require(r, keyViolations, i, "line", e.Line)
		if err != nil {
			return nil, true, err
		}
		rule, err := reportfile.Require(r, keyViolations, i, "rule", e.Rule)
		if err != nil {
			return nil, true, err
		}
		level, err := reportfile.Require(r, keyViolations, i, "level", e.Level)
		if err != nil {
			return nil, true, err
		}
		if domain.IsHiddenPath(file) {
			continue
		}
		t, known := levels[strings.ToLower(level)]
		if !known {
			return nil, true, r.Malformed("%s[%d]: unknown level value %q", keyViolations, i, level)
		}
		records = append(records, domain.NewCodeViolation(t, recipe, file, line, e.Column, rule, e.Message, e.Description, e.Severity, e.Tool))
	}
	return records, true, nil
}

var levels = map[string]domain.Type{
	"major": domain.TypeMajorCodeViolation,
	"minor": domain.TypeMinorCodeViolation,
	"info":  domain.TypeInfoCodeViolation,
}

// decodeDuplications requires both the size and duplications members. Only
// groups of exactly two blocks are read. Every block of a group must name a file
// listed in size; a group touching a hidden file is skipped as a whole.
func decodeDuplications(r *reportfile.Report, obj map[string]json.RawMessage, recipe string) ([]domain.Data, bool, error) {
	if _, found := obj[keySize]; !found {
		return nil, false, nil
	}
	groups, ok, err := reportfile.Array[[]duplicationBlock](r, obj, keyDuplications)
	if err != nil || !ok {
		return nil, ok, err
	}
	entries, _, err := sizes(r, obj)
	if err != nil {
		return nil, true, err
	}
	totals := make(map[string]int64, len(entries))
	for _, e := range entries {
		if _, dup := totals[*e.File]; !dup {
			totals[*e.File] = e.TotalLines
		}
	}

	var records []domain.Data
	for i, group := range groups {
		if len(group) != 2 {
			continue
		}
		blocks := make([]domain.DuplicationData, 0, len(group))
		hidden := false
		for _, b := range group {
			file, err := reportfile.Require(r, keyDuplications, i, "file", b.File)
			if err != nil {
				return nil, true, err
			}
			start, err := reportfile.Require(r, keyDuplications, i, "start", b.Start)
			if err != nil {
				return nil, true, err
			}
			end, err := reportfile.Require(r, keyDuplications, i, "end", b.End)
			if err != nil {
				return nil, true, err
			}
			lines, listed := totals[file]
			if !listed {
				return nil, true, r.Malformed("%s[%d]: file %q not listed in %s", keyDuplications, i, file, keySize)
			}
			hidden = hidden || domain.IsHiddenPath(file)
			blocks = append(blocks, domain.DuplicationData{Recipe: recipe, File: file, Lines: lines, Start: start, End: end})
		}
		if hidden {
			continue
		}
		for _, b := range blocks {
			records = append(records, b)
		}
	}
	return records, true, nil
}
