package metrics

import (
	"encoding/json"
	"slices"

	"github.com/specvital/metashift/pkg/domain"
)

// Summary is the evaluation of every metric over one source, in report order.
type Summary struct {
	Evaluations []Evaluation
}

// Evaluate evaluates every metric of c over src.
func Evaluate(src Source, c Criteria) Summary {
	qs := Qualifiers(c)
	s := Summary{Evaluations: make([]Evaluation, 0, len(qs))}
	for _, q := range qs {
		s.Evaluations = append(s.Evaluations, q.Evaluate(src))
	}
	return s
}

// Get returns the evaluation of m.
func (s Summary) Get(m Metric) (Evaluation, bool) {
	i := slices.IndexFunc(s.Evaluations, func(e Evaluation) bool { return e.Metric == m })
	if i < 0 {
		return Evaluation{}, false
	}
	return s.Evaluations[i], true
}

// Qualified reports whether every available metric is qualified.
func (s Summary) Qualified() bool {
	for _, e := range s.Evaluations {
		if e.Available && !e.Qualified() {
			return false
		}
	}
	return true
}

// Counter returns the qualified metrics over the available ones.
func (s Summary) Counter() Counter {
	var c Counter
	for _, e := range s.Evaluations {
		if !e.Available {
			continue
		}
		c.Denominator++
		if e.Qualified() {
			c.Numerator++
		}
	}
	return c
}

// SetDifference records each evaluation's change against the same metric in
// baseline. Metrics missing from baseline keep a zero difference.
func (s Summary) SetDifference(baseline Summary) {
	for i := range s.Evaluations {
		if b, ok := baseline.Get(s.Evaluations[i].Metric); ok {
			s.Evaluations[i].SetDifference(b)
		}
	}
}

func (s Summary) MarshalJSON() ([]byte, error) {
	if s.Evaluations == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Evaluations)
}

func (s *Summary) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.Evaluations)
}

// RecipeSummary is the evaluation of one recipe.
type RecipeSummary struct {
	Recipe    string  `json:"recipe"`
	Qualified bool    `json:"qualified"`
	Summary   Summary `json:"evaluations"`
}

// Report is the evaluation of a whole ingestion run.
type Report struct {
	Qualified        bool                 `json:"qualified"`
	Summary          Summary              `json:"evaluations"`
	Recipes          []RecipeSummary      `json:"recipes"`
	QualifiedRecipes map[Metric]Counter   `json:"qualified_recipes"`
	Statistics       map[Metric]Statistic `json:"statistics"`
	Size             Size                 `json:"size"`
}

// EvaluateRecipes evaluates the collection in aggregate and recipe by recipe.
// Aggregate counters sum every recipe's denominators and numerators.
func EvaluateRecipes(recipes *domain.RecipeCollection, c Criteria) Report {
	summary := Evaluate(recipes, c)
	r := Report{
		Qualified: summary.Qualified(),
		Summary:   summary,
		Recipes:   make([]RecipeSummary, 0, recipes.Len()),
		Size:      SizeOf(recipes),
	}
	for _, recipe := range recipes.Recipes() {
		s := Evaluate(recipe, c)
		r.Recipes = append(r.Recipes, RecipeSummary{Recipe: recipe.ID(), Qualified: s.Qualified(), Summary: s})
	}
	r.QualifiedRecipes = QualifiedRecipes(r.Recipes)
	r.Statistics = Statistics(r.Recipes)
	return r
}

// SetDifference records the aggregate and per-recipe changes against baseline.
// Recipes missing from baseline keep zero differences.
func (r Report) SetDifference(baseline Report) {
	r.Summary.SetDifference(baseline.Summary)
	for _, rs := range r.Recipes {
		i := slices.IndexFunc(baseline.Recipes, func(b RecipeSummary) bool { return b.Recipe == rs.Recipe })
		if i >= 0 {
			rs.Summary.SetDifference(baseline.Recipes[i].Summary)
		}
	}
}

// QualifiedRecipes counts, per metric, the recipes qualified over the recipes
// where the metric is available.
func QualifiedRecipes(recipes []RecipeSummary) map[Metric]Counter {
	out := make(map[Metric]Counter, metricCount)
	for _, m := range allMetrics {
		out[m] = Counter{}
	}
	for _, rs := range recipes {
		for _, e := range rs.Summary.Evaluations {
			if !e.Available {
				continue
			}
			c := out[e.Metric]
			c.Denominator++
			if e.Qualified() {
				c.Numerator++
			}
			out[e.Metric] = c
		}
	}
	return out
}

// FilterQualified returns the recipes qualified for m.
func FilterQualified(recipes []RecipeSummary, m Metric) []string {
	var out []string
	for _, rs := range recipes {
		if e, ok := rs.Summary.Get(m); ok && e.Qualified() {
			out = append(out, rs.Recipe)
		}
	}
	return out
}
