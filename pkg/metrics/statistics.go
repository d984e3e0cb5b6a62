package metrics

// Statistic summarizes per-recipe ratios of one metric.
type Statistic struct {
	Count   int     `json:"count"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// Statistics summarizes, per metric, the ratios of recipes where the metric is
// available. Metrics available nowhere have a zero Statistic.
func Statistics(recipes []RecipeSummary) map[Metric]Statistic {
	out := make(map[Metric]Statistic, metricCount)
	sums := make(map[Metric]float64, metricCount)
	for _, m := range allMetrics {
		out[m] = Statistic{}
	}
	for _, rs := range recipes {
		for _, e := range rs.Summary.Evaluations {
			if !e.Available {
				continue
			}
			st, ratio := out[e.Metric], e.Ratio.Value
			if st.Count == 0 {
				st.Min, st.Max = ratio, ratio
			} else {
				st.Min, st.Max = min(st.Min, ratio), max(st.Max, ratio)
			}
			st.Count++
			sums[e.Metric] += ratio
			out[e.Metric] = st
		}
	}
	for m, st := range out {
		if st.Count > 0 {
			st.Average = sums[m] / float64(st.Count)
			out[m] = st
		}
	}
	return out
}
