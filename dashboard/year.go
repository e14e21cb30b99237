// Package dashboard derives every view shown on screen from an immutable AnalysisResult.
// Nothing here performs I/O or returns errors: missing data degrades to empty values.
package dashboard

import (
	"finsight/types"
	"sort"
)

// DefaultPreferredYears is the fixed priority used when no configuration is given:
// the current Buddhist-era fiscal year, then its Gregorian counterpart.
var DefaultPreferredYears = []string{"2568", "2025"}

// AvailableYears returns the distinct non-empty year labels of all top-level and
// entity metrics, sorted as strings in descending order.
func AvailableYears(result *types.AnalysisResult) []string {
	if result == nil {
		return []string{}
	}

	seen := make(map[string]bool)
	years := []string{}
	add := func(metrics []types.Metric) {
		for _, m := range metrics {
			if m.Year == "" || seen[m.Year] {
				continue
			}
			seen[m.Year] = true
			years = append(years, m.Year)
		}
	}

	add(result.KeyMetrics)
	for _, e := range result.EntityInsights {
		add(e.KeyMetrics)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

// SelectTargetYear picks the year the dashboard opens on. The first preferred label that is
// present wins; otherwise the greatest label by string comparison. Year labels are never
// compared numerically, so "2568" and "2025" are only ordered by the preference list.
func SelectTargetYear(result *types.AnalysisResult, preferred []string) string {
	years := AvailableYears(result)
	if len(years) == 0 {
		return ""
	}

	for _, p := range preferred {
		for _, y := range years {
			if y == p {
				return y
			}
		}
	}
	return years[0]
}
