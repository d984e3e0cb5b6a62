package metrics

import "fmt"

// Polarity tells whether a metric is better when higher or lower.
type Polarity uint8

const (
	// Positive metrics qualify when the ratio reaches the threshold.
	Positive Polarity = iota
	// Negative metrics qualify when the ratio stays under the threshold.
	Negative
)

func (p Polarity) String() string {
	switch p {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return fmt.Sprintf("Polarity(%d)", uint8(p))
	}
}

// MarshalText encodes the polarity by name.
func (p Polarity) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a polarity name.
func (p *Polarity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "positive":
		*p = Positive
	case "negative":
		*p = Negative
	default:
		return fmt.Errorf("metrics: unknown polarity %q", text)
	}
	return nil
}

// Evaluation is the outcome of one metric over a data source.
type Evaluation struct {
	Metric    Metric   `json:"metric"`
	Polarity  Polarity `json:"polarity"`
	Available bool     `json:"available"`
	Counter
	Ratio     Value `json:"ratio"`
	Threshold Value `json:"threshold"`

	// Levels holds per-level counters for metrics that split by severity or status,
	// keyed by the level label.
	Levels map[string]Counter `json:"levels,omitempty"`
}

// NewEvaluation returns an evaluation of counter against threshold.
func NewEvaluation(metric Metric, polarity Polarity, available bool, counter Counter, threshold float64) Evaluation {
	return Evaluation{
		Metric:    metric,
		Polarity:  polarity,
		Available: available,
		Counter:   counter,
		Ratio:     Value{Value: counter.Ratio()},
		Threshold: Value{Value: threshold},
	}
}

// Qualified reports whether the metric is available and its ratio satisfies the
// threshold for its polarity.
func (e Evaluation) Qualified() bool {
	if !e.Available {
		return false
	}
	if e.Polarity == Negative {
		return e.Ratio.Value <= e.Threshold.Value
	}
	return e.Ratio.Value >= e.Threshold.Value
}

// Difference returns the signed change of e's ratio against other's.
func (e Evaluation) Difference(other Evaluation) float64 {
	return e.Ratio.Value - other.Ratio.Value
}

// SetDifference records the ratio and threshold changes against baseline.
func (e *Evaluation) SetDifference(baseline Evaluation) {
	e.Ratio = e.Ratio.Against(baseline.Ratio)
	e.Threshold = e.Threshold.Against(baseline.Threshold)
}
