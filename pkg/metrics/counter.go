// Package metrics counts and qualifies ingested report data against thresholds.
package metrics

// Counter is a numerator over a denominator.
type Counter struct {
	Denominator int64 `json:"denominator"`
	Numerator   int64 `json:"numerator"`
}

// NewCounter returns a counter of numerator over denominator.
func NewCounter(denominator, numerator int64) Counter {
	return Counter{Denominator: denominator, Numerator: numerator}
}

// Ratio returns Numerator / Denominator, or 0 when Denominator is zero.
func (c Counter) Ratio() float64 {
	if c.Denominator == 0 {
		return 0
	}
	return float64(c.Numerator) / float64(c.Denominator)
}

// Add returns the component-wise sum of c and o.
func (c Counter) Add(o Counter) Counter {
	return Counter{Denominator: c.Denominator + o.Denominator, Numerator: c.Numerator + o.Numerator}
}

// Value is a number paired with its signed change against a baseline.
type Value struct {
	Value      float64 `json:"value"`
	Difference float64 `json:"difference"`
}

// Against returns v with Difference set to v minus baseline.
func (v Value) Against(baseline Value) Value {
	return Value{Value: v.Value, Difference: v.Value - baseline.Value}
}
