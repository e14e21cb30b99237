package dashboard

import (
	"finsight/types"
	"sort"
)

// Ratio sort orders
const (
	SortDesc = "desc"
	SortAsc  = "asc"
)

// MaxRanked caps every ranked list.
const MaxRanked = 5

// OtherCategory collects ratios whose category is not one of the four known ones.
const OtherCategory = "Other"

var impactOrder = map[string]int{
	types.ImpactHigh:   0,
	types.ImpactMedium: 1,
	types.ImpactLow:    2,
}

func impactRank(impact string) int {
	if r, ok := impactOrder[impact]; ok {
		return r
	}
	return len(impactOrder)
}

func capLimit(limit int) int {
	if limit <= 0 || limit > MaxRanked {
		return MaxRanked
	}
	return limit
}

// RankAnomalies orders anomalies High, Medium, Low, keeping the original order within
// each impact. Unknown impacts come last. The list is capped at limit (at most 5).
func RankAnomalies(anomalies []types.Anomaly, limit int) []types.Anomaly {
	ranked := make([]types.Anomaly, len(anomalies))
	copy(ranked, anomalies)
	sort.SliceStable(ranked, func(i, j int) bool {
		return impactRank(ranked[i].Impact) < impactRank(ranked[j].Impact)
	})

	if n := capLimit(limit); len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// RankRatios orders ratios by value, highest first for SortDesc and lowest first for SortAsc,
// capped at limit (at most 5). Equal values keep their original order.
func RankRatios(ratios []types.Ratio, order string, limit int) []types.Ratio {
	ranked := make([]types.Ratio, len(ratios))
	copy(ranked, ratios)
	sort.SliceStable(ranked, func(i, j int) bool {
		if order == SortAsc {
			return ranked[i].Value < ranked[j].Value
		}
		return ranked[i].Value > ranked[j].Value
	})

	if n := capLimit(limit); len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// RatioGroup is the set of ratios of one category.
type RatioGroup struct {
	Category string        `json:"category"`
	Ratios   []types.Ratio `json:"ratios"`
}

var categoryOrder = []string{
	types.CategoryLiquidity,
	types.CategoryProfitability,
	types.CategoryEfficiency,
	types.CategoryLeverage,
}

// GroupRatios groups ratios by category in the fixed category order. Empty groups are omitted.
func GroupRatios(ratios []types.Ratio) []RatioGroup {
	byCategory := make(map[string][]types.Ratio)
	for _, r := range ratios {
		cat := r.Category
		if !isKnownCategory(cat) {
			cat = OtherCategory
		}
		byCategory[cat] = append(byCategory[cat], r)
	}

	groups := []RatioGroup{}
	order := make([]string, 0, len(categoryOrder)+1)
	order = append(append(order, categoryOrder...), OtherCategory)
	for _, cat := range order {
		if rs, ok := byCategory[cat]; ok {
			groups = append(groups, RatioGroup{Category: cat, Ratios: rs})
		}
	}
	return groups
}

func isKnownCategory(cat string) bool {
	for _, c := range categoryOrder {
		if c == cat {
			return true
		}
	}
	return false
}
