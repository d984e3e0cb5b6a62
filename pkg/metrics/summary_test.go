package metrics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/metashift/pkg/domain"
)

func newRecipe(t *testing.T, id string, records ...domain.Data) *domain.Recipe {
	t.Helper()

	l := domain.NewDataList()
	l.AddAll(records...)
	r, err := domain.NewRecipeWithData(id, l)
	require.NoError(t, err)
	return r
}

func cacheRecipe(t *testing.T, id string, found, missed int) *domain.Recipe {
	t.Helper()

	records := []domain.Data{
		domain.NewMarker(id, domain.TypePremirrorCache),
		domain.CodeSizeData{Recipe: id, File: "a.c", Lines: 10, Functions: 2, Classes: 1},
	}
	for i := range found {
		records = append(records, domain.NewPremirrorCache(id, string(rune('a'+i)), true))
	}
	for i := range missed {
		records = append(records, domain.NewPremirrorCache(id, string(rune('A'+i)), false))
	}
	return newRecipe(t, id, records...)
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	t.Run("should qualify when every available metric qualifies", func(t *testing.T) {
		t.Parallel()

		s := Evaluate(cacheRecipe(t, recipeA, 9, 1), DefaultCriteria())
		require.Len(t, s.Evaluations, len(Metrics()))
		assert.True(t, s.Qualified())
		assert.Equal(t, NewCounter(1, 1), s.Counter())
	})

	t.Run("should not qualify when an available metric fails", func(t *testing.T) {
		t.Parallel()

		s := Evaluate(cacheRecipe(t, recipeA, 1, 1), DefaultCriteria())
		assert.False(t, s.Qualified())
		assert.Equal(t, NewCounter(1, 0), s.Counter())
	})

	t.Run("should qualify vacuously without data", func(t *testing.T) {
		t.Parallel()

		s := Evaluate(domain.NewDataList(), DefaultCriteria())
		assert.True(t, s.Qualified())
		assert.Equal(t, Counter{}, s.Counter())
	})
}

func TestEvaluateRecipes(t *testing.T) {
	t.Parallel()

	// Given
	recipes := domain.NewRecipeCollection(
		cacheRecipe(t, "A-1.0.0-r0", 1, 0),
		cacheRecipe(t, "B-1.0.0-r0", 1, 3),
		newRecipe(t, "C-1.0.0-r0", domain.CodeSizeData{Recipe: "C-1.0.0-r0", File: "c.c", Lines: 5}),
	)

	// When
	r := EvaluateRecipes(recipes, DefaultCriteria())

	// Then
	e, ok := r.Summary.Get(PremirrorCache)
	require.True(t, ok)
	assert.Equal(t, NewCounter(5, 2), e.Counter, "aggregate sums counters")
	assert.InDelta(t, 0.4, e.Ratio.Value, 1e-9)
	assert.False(t, r.Qualified)

	require.Len(t, r.Recipes, 3)
	assert.True(t, r.Recipes[0].Qualified)
	assert.False(t, r.Recipes[1].Qualified)
	assert.True(t, r.Recipes[2].Qualified)

	assert.Equal(t, NewCounter(2, 1), r.QualifiedRecipes[PremirrorCache])
	assert.Equal(t, Counter{}, r.QualifiedRecipes[Tests])
	assert.Equal(t, []string{"A-1.0.0-r0"}, FilterQualified(r.Recipes, PremirrorCache))

	st := r.Statistics[PremirrorCache]
	assert.Equal(t, 2, st.Count)
	assert.InDelta(t, 0.25, st.Min, 1e-9)
	assert.InDelta(t, 1.0, st.Max, 1e-9)
	assert.InDelta(t, 0.625, st.Average, 1e-9)
	assert.Equal(t, Statistic{}, r.Statistics[Tests])

	assert.Equal(t, Size{Recipes: 3, Files: 3, Lines: 25, Functions: 4, Classes: 2}, r.Size)
}

func TestReport_SetDifference(t *testing.T) {
	t.Parallel()

	// Given
	baseline := EvaluateRecipes(domain.NewRecipeCollection(cacheRecipe(t, recipeA, 1, 3)), DefaultCriteria())
	current := EvaluateRecipes(domain.NewRecipeCollection(
		cacheRecipe(t, recipeA, 3, 1),
		cacheRecipe(t, "B-1.0.0-r0", 1, 1),
	), DefaultCriteria())

	// When
	current.SetDifference(baseline)

	// Then
	e, _ := current.Summary.Get(PremirrorCache)
	assert.InDelta(t, 4.0/6.0-0.25, e.Ratio.Difference, 1e-9)
	assert.Zero(t, e.Threshold.Difference)

	a, _ := current.Recipes[0].Summary.Get(PremirrorCache)
	assert.InDelta(t, 0.5, a.Ratio.Difference, 1e-9)
	b, _ := current.Recipes[1].Summary.Get(PremirrorCache)
	assert.Zero(t, b.Ratio.Difference)
}

func TestSummary_JSON(t *testing.T) {
	t.Parallel()

	s := Evaluate(cacheRecipe(t, recipeA, 1, 1), DefaultCriteria())

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, len(Metrics()))
	assert.Equal(t, "premirror_cache", raw[0]["metric"])
	assert.Equal(t, "positive", raw[0]["polarity"])
	assert.EqualValues(t, 2, raw[0]["denominator"])

	empty, err := json.Marshal(Summary{})
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(empty))
}

func TestSize_Delta(t *testing.T) {
	t.Parallel()

	former := Size{Recipes: 1, Files: 2, Lines: 30, Functions: 4, Classes: 1}
	latter := Size{Recipes: 2, Files: 3, Lines: 20, Functions: 4, Classes: 0}

	assert.Equal(t, Size{Recipes: 1, Files: 1, Lines: -10, Functions: 0, Classes: -1}, latter.Delta(former))
	assert.Equal(t, latter, latter.Delta(Size{}))
}
