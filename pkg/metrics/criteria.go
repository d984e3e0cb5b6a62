package metrics

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCriteria is returned when a criteria file cannot be decoded.
var ErrInvalidCriteria = errors.New("metrics: invalid criteria")

// Criteria holds the per-metric thresholds. Percentages are kept in [0,100] and
// densities and tolerances are kept non-negative; setters clamp silently.
type Criteria struct {
	thresholds           [metricCount]float64
	complexityTolerance  int64
	duplicationTolerance int64
}

// DefaultCriteria returns the stock thresholds.
func DefaultCriteria() Criteria {
	var c Criteria
	c.SetThreshold(PremirrorCache, 80)
	c.SetThreshold(SharedStateCache, 80)
	c.SetThreshold(RecipeViolations, 0.1)
	c.SetThreshold(Comments, 20)
	c.SetThreshold(CodeViolations, 0.1)
	c.SetThreshold(Complexity, 10)
	c.SetThreshold(Duplications, 10)
	c.SetThreshold(Tests, 95)
	c.SetThreshold(StatementCoverage, 80)
	c.SetThreshold(BranchCoverage, 40)
	c.SetThreshold(MutationTests, 85)
	c.SetComplexityTolerance(10)
	c.SetDuplicationTolerance(10)
	return c
}

// SetThreshold sets the configured threshold of m. Unknown metrics are ignored.
func (c *Criteria) SetThreshold(m Metric, v float64) {
	i := m.index()
	if i < 0 {
		return
	}
	if m.IsDensity() {
		c.thresholds[i] = max(v, 0)
		return
	}
	c.thresholds[i] = clampPercent(v)
}

// Threshold returns the configured threshold of m, a percentage or a density.
func (c Criteria) Threshold(m Metric) float64 {
	i := m.index()
	if i < 0 {
		return 0
	}
	return c.thresholds[i]
}

// RatioThreshold returns the threshold of m on the scale of Counter.Ratio.
func (c Criteria) RatioThreshold(m Metric) float64 {
	if m.IsDensity() {
		return c.Threshold(m)
	}
	return c.Threshold(m) / 100
}

// ComplexityTolerance is the complexity at which a function counts as complex.
func (c Criteria) ComplexityTolerance() int64 { return c.complexityTolerance }

// SetComplexityTolerance sets the complexity tolerance, clamped to zero.
func (c *Criteria) SetComplexityTolerance(v int64) { c.complexityTolerance = max(v, 0) }

// DuplicationTolerance is the block size at which a duplication counts.
func (c Criteria) DuplicationTolerance() int64 { return c.duplicationTolerance }

// SetDuplicationTolerance sets the duplication tolerance, clamped to zero.
func (c *Criteria) SetDuplicationTolerance(v int64) { c.duplicationTolerance = max(v, 0) }

func clampPercent(v float64) float64 {
	return min(max(v, 0), 100)
}

// criteriaFile is the YAML layout of a criteria file. Omitted keys keep their defaults.
type criteriaFile struct {
	Thresholds           map[Metric]float64 `yaml:"thresholds"`
	ComplexityTolerance  *int64             `yaml:"complexity_tolerance"`
	DuplicationTolerance *int64             `yaml:"duplication_tolerance"`
}

// ParseCriteria decodes YAML criteria over DefaultCriteria.
func ParseCriteria(data []byte) (Criteria, error) {
	c := DefaultCriteria()
	if len(bytes.TrimSpace(data)) == 0 {
		return c, nil
	}

	var f criteriaFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Criteria{}, fmt.Errorf("%w: %w", ErrInvalidCriteria, err)
	}

	for m, v := range f.Thresholds {
		if _, ok := ParseMetric(string(m)); !ok {
			return Criteria{}, fmt.Errorf("%w: unknown metric %q", ErrInvalidCriteria, m)
		}
		c.SetThreshold(m, v)
	}
	if f.ComplexityTolerance != nil {
		c.SetComplexityTolerance(*f.ComplexityTolerance)
	}
	if f.DuplicationTolerance != nil {
		c.SetDuplicationTolerance(*f.DuplicationTolerance)
	}
	return c, nil
}

// LoadCriteria reads a YAML criteria file. An empty path returns DefaultCriteria.
func LoadCriteria(path string) (Criteria, error) {
	if path == "" {
		return DefaultCriteria(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Criteria{}, fmt.Errorf("read criteria: %w", err)
	}
	c, err := ParseCriteria(data)
	if err != nil {
		return Criteria{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// MarshalYAML encodes the criteria in the layout ParseCriteria accepts.
func (c Criteria) MarshalYAML() (any, error) {
	thresholds := make(map[Metric]float64, len(allMetrics))
	for _, m := range allMetrics {
		thresholds[m] = c.Threshold(m)
	}
	ct, dt := c.complexityTolerance, c.duplicationTolerance
	return criteriaFile{Thresholds: thresholds, ComplexityTolerance: &ct, DuplicationTolerance: &dt}, nil
}
