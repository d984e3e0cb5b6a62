package metrics

import "slices"

// Metric names one qualification metric.
type Metric string

const (
	PremirrorCache    Metric = "premirror_cache"
	SharedStateCache  Metric = "shared_state_cache"
	RecipeViolations  Metric = "recipe_violations"
	Comments          Metric = "comments"
	CodeViolations    Metric = "code_violations"
	Complexity        Metric = "complexity"
	Duplications      Metric = "duplications"
	Tests             Metric = "tests"
	StatementCoverage Metric = "statement_coverage"
	BranchCoverage    Metric = "branch_coverage"
	MutationTests     Metric = "mutation_tests"
)

const metricCount = 11

var allMetrics = [metricCount]Metric{
	PremirrorCache,
	SharedStateCache,
	RecipeViolations,
	Comments,
	CodeViolations,
	Complexity,
	Duplications,
	Tests,
	StatementCoverage,
	BranchCoverage,
	MutationTests,
}

// Metrics returns every metric in report order.
func Metrics() []Metric {
	return slices.Clone(allMetrics[:])
}

// ParseMetric returns the metric named name.
func ParseMetric(name string) (Metric, bool) {
	m := Metric(name)
	return m, slices.Contains(allMetrics[:], m)
}

// IsDensity reports whether the metric's threshold is a per-line density rather
// than a percentage.
func (m Metric) IsDensity() bool {
	return m == RecipeViolations || m == CodeViolations
}

func (m Metric) index() int {
	return slices.Index(allMetrics[:], m)
}
