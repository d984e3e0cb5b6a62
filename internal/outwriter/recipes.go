package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/specvital/metashift/pkg/domain"
	"github.com/specvital/metashift/pkg/parser"
)

// categoryColumns are the record families summarized per recipe.
var categoryColumns = []domain.Type{
	domain.TypeCodeSize,
	domain.TypeComment,
	domain.TypeComplexity,
	domain.TypeDuplication,
	domain.TypeCodeViolation,
	domain.TypeRecipeViolation,
	domain.TypeCache,
	domain.TypeTest,
	domain.TypeCoverage,
	domain.TypeMutationTest,
}

// RecipeInfo is the per-recipe summary of an ingestion.
type RecipeInfo struct {
	Recipe    string         `json:"recipe"`
	Name      string         `json:"name"`
	Version   string         `json:"version"`
	Release   string         `json:"release"`
	Available []string       `json:"available"`
	Counts    map[string]int `json:"counts"`
}

// IngestSummary is the JSON shape of an ingestion result.
type IngestSummary struct {
	Found      int          `json:"found"`
	Skipped    int          `json:"skipped"`
	Removed    int          `json:"removed"`
	DurationMs int64        `json:"duration_ms"`
	Recipes    []RecipeInfo `json:"recipes"`
}

// SummarizeIngest builds the per-recipe summary of result.
func SummarizeIngest(result *parser.Result) IngestSummary {
	s := IngestSummary{
		Found:      result.Stats.Found,
		Skipped:    result.Stats.Skipped,
		Removed:    result.Stats.Removed,
		DurationMs: result.Stats.Duration.Milliseconds(),
		Recipes:    make([]RecipeInfo, 0, result.Recipes.Len()),
	}
	for _, r := range result.Recipes.Recipes() {
		info := RecipeInfo{
			Recipe:    r.ID(),
			Name:      r.Name,
			Version:   r.Version,
			Release:   r.Release,
			Available: []string{},
			Counts:    make(map[string]int, len(categoryColumns)),
		}
		for _, t := range r.Data().Present() {
			info.Available = append(info.Available, t.String())
		}
		for _, t := range categoryColumns {
			info.Counts[t.String()] = r.Data().Count(t)
		}
		s.Recipes = append(s.Recipes, info)
	}
	return s
}

// WriteIngest renders the recipes of an ingestion in the configured format.
func WriteIngest(w io.Writer, result *parser.Result, cfg Config) error {
	summary := SummarizeIngest(result)

	switch cfg.Format {
	case JSONOut:
		return writeJSON(w, summary)
	case CSVOut:
		header := []string{"recipe"}
		for _, t := range categoryColumns {
			header = append(header, t.String())
		}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, info := range summary.Recipes {
				row := []string{info.Recipe}
				for _, t := range categoryColumns {
					row = append(row, strconv.Itoa(info.Counts[t.String()]))
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}

	width := maxNameWidth(cfg)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Recipe", "Files", "Violations", "Tests", "Coverage", "Mutations", "Caches"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, info := range summary.Recipes {
		data = append(data, []string{
			truncate(info.Recipe, width),
			strconv.Itoa(info.Counts[domain.TypeCodeSize.String()]),
			strconv.Itoa(info.Counts[domain.TypeCodeViolation.String()] + info.Counts[domain.TypeRecipeViolation.String()]),
			strconv.Itoa(info.Counts[domain.TypeTest.String()]),
			strconv.Itoa(info.Counts[domain.TypeCoverage.String()]),
			strconv.Itoa(info.Counts[domain.TypeMutationTest.String()]),
			strconv.Itoa(info.Counts[domain.TypeCache.String()]),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Found %d recipe data, %d skipped, %d removed in %v\n",
		summary.Found, summary.Skipped, summary.Removed, result.Stats.Duration)
	return err
}
