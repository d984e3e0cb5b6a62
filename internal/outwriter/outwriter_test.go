package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/metashift/pkg/domain"
	"github.com/specvital/metashift/pkg/history"
	"github.com/specvital/metashift/pkg/metrics"
	"github.com/specvital/metashift/pkg/parser"
)

const recipeID = "busybox-1.31.1-r0"

func sampleCollection(t *testing.T) *domain.RecipeCollection {
	t.Helper()

	l := domain.NewDataList()
	l.AddAll(
		domain.NewMarker(recipeID, domain.TypePremirrorCache),
		domain.NewMarker(recipeID, domain.TypeCodeSize),
		domain.CodeSizeData{Recipe: recipeID, File: "a.c", Lines: 10, Functions: 1},
		domain.NewPremirrorCache(recipeID, "x", true),
		domain.NewPremirrorCache(recipeID, "y", false),
	)
	r, err := domain.NewRecipeWithData(recipeID, l)
	require.NoError(t, err)
	return domain.NewRecipeCollection(r)
}

func sampleReport(t *testing.T) metrics.Report {
	t.Helper()
	return metrics.EvaluateRecipes(sampleCollection(t), metrics.DefaultCriteria())
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]Format{"": TableOut, "text": TableOut, "JSON": JSONOut, "csv": CSVOut} {
		got, err := ParseFormat(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	t.Run("should render table with verdict", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.Width = 120
		cfg.Recipes = true

		var buf bytes.Buffer
		require.NoError(t, WriteReport(&buf, sampleReport(t), cfg))

		out := buf.String()
		assert.Contains(t, out, "premirror_cache")
		assert.Contains(t, out, "1/2")
		assert.Contains(t, out, ">= 0.80")
		assert.Contains(t, out, "<= 0.10")
		assert.Contains(t, out, "N/A")
		assert.Contains(t, out, recipeID)
		assert.Contains(t, out, "Recipes: 1, Files: 1, Lines: 10, Functions: 1, Classes: 0")
		assert.Contains(t, out, "Overall: NOT QUALIFIED (0 of 1 available metrics qualified)")
	})

	t.Run("should render json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, WriteReport(&buf, sampleReport(t), Config{Format: JSONOut}))

		var got metrics.Report
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.False(t, got.Qualified)
		assert.Len(t, got.Summary.Evaluations, len(metrics.Metrics()))
	})

	t.Run("should render csv with recipes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, WriteReport(&buf, sampleReport(t), Config{Format: CSVOut, Precision: 3, Recipes: true}))

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 1+2*len(metrics.Metrics()))
		assert.Equal(t, "recipe", records[0][0])
		assert.Equal(t, []string{"", "premirror_cache", "true", "2", "1", "0.500", "0.800", "0.000", "false"}, records[1])
	})
}

func TestDeltaLabel(t *testing.T) {
	t.Parallel()

	p := newPalette(false)
	positive := metrics.Evaluation{Polarity: metrics.Positive, Ratio: metrics.Value{Difference: 0.25}}
	negative := metrics.Evaluation{Polarity: metrics.Negative, Ratio: metrics.Value{Difference: -0.5}}

	assert.Equal(t, "+0.25 ▲", deltaLabel(positive, 2, p))
	assert.Equal(t, "-0.50 ▼", deltaLabel(negative, 2, p))
	assert.Equal(t, "0.00", deltaLabel(metrics.Evaluation{}, 2, p))
}

func TestWriteIngest(t *testing.T) {
	t.Parallel()

	result := &parser.Result{
		Recipes: sampleCollection(t),
		Stats:   parser.IngestStats{Found: 2, Removed: 1, Duration: time.Second},
	}

	t.Run("should render table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, WriteIngest(&buf, result, Config{Width: 100}))
		assert.Contains(t, buf.String(), recipeID)
		assert.Contains(t, buf.String(), "Found 2 recipe data, 0 skipped, 1 removed")
	})

	t.Run("should render json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, WriteIngest(&buf, result, Config{Format: JSONOut}))

		var got IngestSummary
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got.Recipes, 1)
		assert.Equal(t, "busybox", got.Recipes[0].Name)
		assert.Equal(t, []string{"PremirrorCache", "CodeSize"}, got.Recipes[0].Available)
		assert.Equal(t, 2, got.Recipes[0].Counts["Cache"])
	})

	t.Run("should render csv", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, WriteIngest(&buf, result, Config{Format: CSVOut}))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[1], recipeID+",1,"))
	})
}

func TestWriteRuns(t *testing.T) {
	t.Parallel()

	runs := []history.Run{{ID: 7, Root: "/reports", StartedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), Duration: time.Second, Recipes: 3, Qualified: true}}

	var buf bytes.Buffer
	require.NoError(t, WriteRuns(&buf, runs, Config{Width: 100}))
	assert.Contains(t, buf.String(), "2026-05-01 10:00:00")
	assert.Contains(t, buf.String(), "PASS")

	buf.Reset()
	require.NoError(t, WriteRuns(&buf, nil, Config{Format: JSONOut}))
	assert.JSONEq(t, "[]", buf.String())

	buf.Reset()
	require.NoError(t, WriteRuns(&buf, runs, Config{Format: CSVOut}))
	assert.Contains(t, buf.String(), "7,/reports,2026-05-01T10:00:00Z,1000,3,true")
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "...-r0", truncate("busybox-1.31.1-r0", 6))
}
