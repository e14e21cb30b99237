package dashboard

import (
	"finsight/types"
	"finsight/utils/helpers"
)

// OverviewEntity is the pseudo-entity standing for the whole document.
const OverviewEntity = "Overview"

// EntityView is the summary and metrics resolved for one selection.
type EntityView struct {
	Name            string         `json:"name"`
	Summary         string         `json:"summary"`
	LiquidityStatus string         `json:"liquidity_status,omitempty"`
	Metrics         []types.Metric `json:"metrics"`
	NoData          bool           `json:"no_data"`
}

// Entities lists the selectable entities: Overview first, then each entity name once,
// in document order.
func Entities(result *types.AnalysisResult) []string {
	names := []string{OverviewEntity}
	if result == nil {
		return names
	}

	seen := map[string]bool{OverviewEntity: true}
	for _, e := range result.EntityInsights {
		if e.Name == "" || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		names = append(names, e.Name)
	}
	return names
}

// DuplicateEntities returns entity names that occur more than once. Lookups use the
// first occurrence, so callers should surface these as a data-quality warning.
func DuplicateEntities(result *types.AnalysisResult) []string {
	dups := []string{}
	if result == nil {
		return dups
	}

	count := make(map[string]int)
	for _, e := range result.EntityInsights {
		count[e.Name]++
		if count[e.Name] == 2 {
			dups = append(dups, e.Name)
		}
	}
	return dups
}

func findEntity(result *types.AnalysisResult, name string) (types.EntityInsight, bool) {
	for _, e := range result.EntityInsights {
		if e.Name == name {
			return e, true
		}
	}
	return types.EntityInsight{}, false
}

// ResolveEntity returns the summary and metrics for a selection. Overview and an empty name
// use the top-level data, a named entity its own. Metrics are kept for year only (all of them
// when year is empty). An unknown name yields the no-data placeholder.
func ResolveEntity(result *types.AnalysisResult, name, year string) EntityView {
	if result == nil {
		return EntityView{Name: name, Summary: types.MsgNoEntityData, Metrics: []types.Metric{}, NoData: true}
	}

	if name == "" || name == OverviewEntity {
		metrics := result.KeyMetrics
		if year != "" {
			metrics = FilterMetricsByYear(metrics, year)
		}
		return EntityView{
			Name:    OverviewEntity,
			Summary: result.Summary,
			Metrics: nonNilMetrics(metrics),
		}
	}

	entity, ok := findEntity(result, name)
	if !ok {
		return EntityView{Name: name, Summary: types.MsgNoEntityData, Metrics: []types.Metric{}, NoData: true}
	}

	metrics := entity.KeyMetrics
	if year != "" {
		metrics = FilterMetricsByYear(metrics, year)
	}
	return EntityView{
		Name:            entity.Name,
		Summary:         entity.Summary,
		LiquidityStatus: entity.LiquidityStatus,
		Metrics:         nonNilMetrics(metrics),
	}
}

// FilterAnomalies keeps anomalies relevant to entity. Anomalies without a related entity
// apply to every selection.
func FilterAnomalies(anomalies []types.Anomaly, entity string) []types.Anomaly {
	out := []types.Anomaly{}
	for _, a := range anomalies {
		if entity == "" || entity == OverviewEntity || a.RelatedEntity == "" || a.RelatedEntity == entity {
			out = append(out, a)
		}
	}
	return out
}

// FilterMetricsByYear keeps metrics whose year label equals year exactly.
func FilterMetricsByYear(metrics []types.Metric, year string) []types.Metric {
	out := []types.Metric{}
	for _, m := range metrics {
		if m.Year == year {
			out = append(out, m)
		}
	}
	return out
}

// MatchesLabel reports whether a metric label and the chosen comparison label refer to the
// same figure. Either may contain the other.
func MatchesLabel(label, wanted string) bool {
	return helpers.LooseMatch(label, wanted)
}

// SearchAccounts filters account insights by a case-insensitive substring of the account
// name or the analysis text. An empty query returns every account.
func SearchAccounts(accounts []types.AccountInsight, query string) []types.AccountInsight {
	out := []types.AccountInsight{}
	q := helpers.NormalizeString(query)
	for _, a := range accounts {
		if q == "" || helpers.ContainsFold(a.AccountName, q) || helpers.ContainsFold(a.Analysis, q) {
			out = append(out, a)
		}
	}
	return out
}

func nonNilMetrics(m []types.Metric) []types.Metric {
	if m == nil {
		return []types.Metric{}
	}
	return m
}
