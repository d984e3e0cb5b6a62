package metrics

import (
	"iter"

	"github.com/specvital/metashift/pkg/domain"
)

// Source is queryable report data. *domain.DataList, *domain.Recipe and
// *domain.RecipeCollection all satisfy it; a collection counts its recipes'
// records together.
type Source interface {
	Objects(t domain.Type) iter.Seq[domain.Data]
	IsAvailable(t domain.Type) bool
}

// Qualifier evaluates one metric under a criteria.
type Qualifier struct {
	metric    Metric
	polarity  Polarity
	threshold float64
	available func(Source) bool
	count     func(Source) Counter
	levels    []domain.Type
	family    domain.Type
}

// Metric returns the evaluated metric.
func (q Qualifier) Metric() Metric { return q.metric }

// Polarity returns the metric polarity.
func (q Qualifier) Polarity() Polarity { return q.polarity }

// Evaluate counts src and compares the ratio to the threshold.
func (q Qualifier) Evaluate(src Source) Evaluation {
	e := NewEvaluation(q.metric, q.polarity, q.available(src), q.count(src), q.threshold)
	if len(q.levels) > 0 {
		e.Levels = make(map[string]Counter, len(q.levels))
		total := int64(count(src, q.family))
		for _, t := range q.levels {
			e.Levels[t.Label()] = NewCounter(total, int64(count(src, t)))
		}
	}
	return e
}

// Qualifiers returns the qualifier of every metric under c, in report order.
func Qualifiers(c Criteria) []Qualifier {
	complexity := c.ComplexityTolerance()
	duplication := c.DuplicationTolerance()

	qs := []Qualifier{
		{
			metric:    PremirrorCache,
			polarity:  Positive,
			available: availableAll(domain.TypePremirrorCache),
			count:     cacheCounter(domain.TypePremirrorCache),
		},
		{
			metric:    SharedStateCache,
			polarity:  Positive,
			available: availableAll(domain.TypeSharedStateCache),
			count:     cacheCounter(domain.TypeSharedStateCache),
		},
		{
			metric:    RecipeViolations,
			polarity:  Negative,
			available: availableAll(domain.TypeRecipeSize, domain.TypeRecipeViolation),
			count: func(src Source) Counter {
				var lines int64
				for d := range objectsOf[domain.RecipeSizeData](src, domain.TypeRecipeSize) {
					lines += d.Lines
				}
				return NewCounter(lines, int64(count(src, domain.TypeRecipeViolation)))
			},
			family: domain.TypeRecipeViolation,
			levels: domain.TypeRecipeViolation.Variants(),
		},
		{
			metric:    Comments,
			polarity:  Positive,
			available: availableAll(domain.TypeComment),
			count: func(src Source) Counter {
				var c Counter
				for d := range objectsOf[domain.CommentData](src, domain.TypeComment) {
					c = c.Add(NewCounter(d.Lines, d.CommentLines))
				}
				return c
			},
		},
		{
			metric:    CodeViolations,
			polarity:  Negative,
			available: availableAll(domain.TypeCodeSize, domain.TypeCodeViolation),
			count: func(src Source) Counter {
				return NewCounter(codeLines(src), int64(count(src, domain.TypeCodeViolation)))
			},
			family: domain.TypeCodeViolation,
			levels: domain.TypeCodeViolation.Variants(),
		},
		{
			metric:    Complexity,
			polarity:  Negative,
			available: availableAll(domain.TypeComplexity),
			count: func(src Source) Counter {
				var c Counter
				for d := range objectsOf[domain.ComplexityData](src, domain.TypeComplexity) {
					c.Denominator++
					if d.Value >= complexity {
						c.Numerator++
					}
				}
				return c
			},
		},
		{
			metric:    Duplications,
			polarity:  Negative,
			available: availableAll(domain.TypeCodeSize, domain.TypeDuplication),
			count: func(src Source) Counter {
				var duplicated int64
				for d := range objectsOf[domain.DuplicationData](src, domain.TypeDuplication) {
					if n := d.DuplicatedLines(); n >= duplication {
						duplicated += n
					}
				}
				return NewCounter(codeLines(src), duplicated)
			},
		},
		{
			metric:    Tests,
			polarity:  Positive,
			available: availableAll(domain.TypeTest),
			count:     statusCounter(domain.TypeTest, domain.TypePassedTest),
			family:    domain.TypeTest,
			levels:    domain.TypeTest.Variants(),
		},
		{
			metric:    StatementCoverage,
			polarity:  Positive,
			available: availableAll(domain.TypeStatementCoverage),
			count:     coverageCounter(domain.TypeStatementCoverage),
		},
		{
			metric:    BranchCoverage,
			polarity:  Positive,
			available: availableAll(domain.TypeBranchCoverage),
			count:     coverageCounter(domain.TypeBranchCoverage),
		},
		{
			metric:    MutationTests,
			polarity:  Positive,
			available: availableAll(domain.TypeMutationTest),
			count:     statusCounter(domain.TypeMutationTest, domain.TypeKilledMutationTest),
			family:    domain.TypeMutationTest,
			levels:    domain.TypeMutationTest.Variants(),
		},
	}
	for i := range qs {
		qs[i].threshold = c.RatioThreshold(qs[i].metric)
	}
	return qs
}

// QualifierOf returns the qualifier of m under c.
func QualifierOf(m Metric, c Criteria) (Qualifier, bool) {
	for _, q := range Qualifiers(c) {
		if q.metric == m {
			return q, true
		}
	}
	return Qualifier{}, false
}

func availableAll(types ...domain.Type) func(Source) bool {
	return func(src Source) bool {
		for _, t := range types {
			if !src.IsAvailable(t) {
				return false
			}
		}
		return true
	}
}

func cacheCounter(t domain.Type) func(Source) Counter {
	return func(src Source) Counter {
		var c Counter
		for d := range objectsOf[domain.CacheData](src, t) {
			c.Denominator++
			if d.Available {
				c.Numerator++
			}
		}
		return c
	}
}

func coverageCounter(t domain.Type) func(Source) Counter {
	return func(src Source) Counter {
		var c Counter
		for d := range objectsOf[domain.CoverageData](src, t) {
			c.Denominator++
			if d.Covered {
				c.Numerator++
			}
		}
		return c
	}
}

func statusCounter(family, status domain.Type) func(Source) Counter {
	return func(src Source) Counter {
		return NewCounter(int64(count(src, family)), int64(count(src, status)))
	}
}

func codeLines(src Source) int64 {
	var lines int64
	for d := range objectsOf[domain.CodeSizeData](src, domain.TypeCodeSize) {
		lines += d.Lines
	}
	return lines
}

func count(src Source, t domain.Type) int {
	n := 0
	for range src.Objects(t) {
		n++
	}
	return n
}

func objectsOf[T domain.Data](src Source, t domain.Type) iter.Seq[T] {
	return func(yield func(T) bool) {
		for d := range src.Objects(t) {
			v, ok := d.(T)
			if !ok {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}
