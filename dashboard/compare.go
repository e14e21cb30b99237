package dashboard

import (
	"finsight/types"
)

// Point is one entity's value in the comparison chart.
type Point struct {
	Entity string  `json:"entity"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit,omitempty"`
}

// Comparison is the cross-entity chart for one metric and year.
type Comparison struct {
	Metric        string   `json:"metric"`
	Year          string   `json:"year"`
	ChartType     string   `json:"chart_type"`
	MetricOptions []string `json:"metric_options"`
	Series        []Point  `json:"series"`
	Empty         bool     `json:"empty"`
}

// MetricOptions lists the distinct entity metric labels for year in first-seen order.
func MetricOptions(result *types.AnalysisResult, year string) []string {
	labels := []string{}
	if result == nil {
		return labels
	}

	seen := make(map[string]bool)
	for _, e := range result.EntityInsights {
		for _, m := range e.KeyMetrics {
			if m.Year != year || m.Label == "" || seen[m.Label] {
				continue
			}
			seen[m.Label] = true
			labels = append(labels, m.Label)
		}
	}
	return labels
}

// matchMetric returns the first metric of year whose label matches wanted.
func matchMetric(metrics []types.Metric, wanted, year string) (types.Metric, bool) {
	for _, m := range metrics {
		if m.Year == year && MatchesLabel(m.Label, wanted) {
			return m, true
		}
	}
	return types.Metric{}, false
}

// ComparisonSeries builds one point per entity, Overview first when includeOverall is set.
// An entity without a matching metric contributes 0 so that every entity stays on the chart.
// When every value is 0 the series is dropped and Empty is reported instead.
func ComparisonSeries(result *types.AnalysisResult, metric, year string, includeOverall bool) ([]Point, bool) {
	points := []Point{}
	if result == nil {
		return points, true
	}

	if includeOverall {
		p := Point{Entity: OverviewEntity}
		if m, ok := matchMetric(result.KeyMetrics, metric, year); ok {
			p.Value, p.Unit = m.Value, m.Unit
		}
		points = append(points, p)
	}

	seen := make(map[string]bool)
	for _, e := range result.EntityInsights {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true

		p := Point{Entity: e.Name}
		if m, ok := matchMetric(e.KeyMetrics, metric, year); ok {
			p.Value, p.Unit = m.Value, m.Unit
		}
		points = append(points, p)
	}

	for _, p := range points {
		if p.Value != 0 {
			return points, false
		}
	}
	return []Point{}, true
}
