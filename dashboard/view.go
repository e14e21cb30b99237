package dashboard

import (
	"finsight/config"
	"finsight/types"
	"fmt"
	"path/filepath"
	"strings"
)

// Chart types understood by the renderer
const (
	ChartBar  = "bar"
	ChartLine = "line"
	ChartPie  = "pie"
	ChartArea = "area"
)

// Options selects which optional panels the dashboard carries.
type Options struct {
	PreferredYears     []string
	ComparisonEnabled  bool
	RatioToggleEnabled bool
	AnomalyLimit       int
	RatioLimit         int
	IncludeOverall     bool
}

// DefaultOptions enables every panel with the standard year priority.
func DefaultOptions() Options {
	return Options{
		PreferredYears:     DefaultPreferredYears,
		ComparisonEnabled:  true,
		RatioToggleEnabled: true,
		AnomalyLimit:       MaxRanked,
		RatioLimit:         MaxRanked,
	}
}

func OptionsFromConfig(cfg config.DashboardConfig) Options {
	var years []string
	for _, y := range []string{cfg.CurrentYear, cfg.FallbackYear} {
		if y != "" {
			years = append(years, y)
		}
	}
	if len(years) == 0 {
		years = DefaultPreferredYears
	}

	return Options{
		PreferredYears:     years,
		ComparisonEnabled:  cfg.ComparisonEnabled,
		RatioToggleEnabled: cfg.RatioToggleEnabled,
		AnomalyLimit:       cfg.AnomalyLimit,
		RatioLimit:         cfg.RatioLimit,
	}
}

// Params are the user's current selections. Empty fields fall back to defaults.
type Params struct {
	Entity  string `form:"entity" json:"entity"`
	Year    string `form:"year" json:"year"`
	Metric  string `form:"metric" json:"metric"`
	Chart   string `form:"chart" json:"chart" binding:"omitempty,oneof=bar line pie area"`
	Sort    string `form:"sort" json:"sort" binding:"omitempty,oneof=desc asc"`
	Query   string `form:"q" json:"q"`
	Overall *bool  `form:"overall" json:"overall"`
}

// Dashboard is the complete derived view for one selection.
type Dashboard struct {
	DocumentTitle   string                 `json:"document_title,omitempty"`
	Entity          string                 `json:"entity"`
	Entities        []string               `json:"entities"`
	Year            string                 `json:"year"`
	Years           []string               `json:"years"`
	Summary         string                 `json:"summary"`
	FutureOutlook   string                 `json:"future_outlook"`
	NoData          bool                   `json:"no_data"`
	LiquidityStatus string                 `json:"liquidity_status,omitempty"`
	Metrics         []types.Metric         `json:"metrics"`
	Ratios          []types.Ratio          `json:"ratios"`
	RatioGroups     []RatioGroup           `json:"ratio_groups"`
	RatioSort       string                 `json:"ratio_sort,omitempty"`
	RatioRanking    []types.Ratio          `json:"ratio_ranking,omitempty"`
	Anomalies       []types.Anomaly        `json:"anomalies"`
	AnomalyTotal    int                    `json:"anomaly_total"`
	Accounts        []types.AccountInsight `json:"accounts"`
	Comparison      *Comparison            `json:"comparison,omitempty"`
	Warnings        []string               `json:"warnings,omitempty"`
}

// DocumentTitle is the file name without its extension, used as the printed report title.
func DocumentTitle(fileName string) string {
	base := filepath.Base(fileName)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Build derives the dashboard for params from result. It never fails: unknown selections
// and missing data produce placeholders and empty lists.
func Build(result *types.AnalysisResult, fileName string, params Params, opts Options) Dashboard {
	if result == nil {
		result = &types.AnalysisResult{}
	}

	years := AvailableYears(result)
	year := params.Year
	if year == "" {
		year = SelectTargetYear(result, opts.PreferredYears)
	}

	view := ResolveEntity(result, params.Entity, year)
	anomalies := FilterAnomalies(result.Anomalies, view.Name)

	d := Dashboard{
		DocumentTitle:   DocumentTitle(fileName),
		Entity:          view.Name,
		Entities:        Entities(result),
		Year:            year,
		Years:           years,
		Summary:         view.Summary,
		FutureOutlook:   result.FutureOutlook,
		NoData:          view.NoData,
		LiquidityStatus: view.LiquidityStatus,
		Metrics:         view.Metrics,
		Ratios:          nonNilRatios(result.FinancialRatios),
		RatioGroups:     GroupRatios(result.FinancialRatios),
		Anomalies:       RankAnomalies(anomalies, opts.AnomalyLimit),
		AnomalyTotal:    len(anomalies),
		Accounts:        SearchAccounts(result.AccountInsights, params.Query),
	}

	for _, name := range DuplicateEntities(result) {
		d.Warnings = append(d.Warnings, fmt.Sprintf("duplicate entity %q: showing the first occurrence", name))
	}

	if opts.RatioToggleEnabled {
		d.RatioSort = SortDesc
		if params.Sort == SortAsc {
			d.RatioSort = SortAsc
		}
		d.RatioRanking = RankRatios(result.FinancialRatios, d.RatioSort, opts.RatioLimit)
	}

	if opts.ComparisonEnabled && len(result.EntityInsights) > 0 {
		d.Comparison = buildComparison(result, params, opts, year)
	}

	return d
}

func buildComparison(result *types.AnalysisResult, params Params, opts Options, year string) *Comparison {
	c := &Comparison{
		Year:          year,
		ChartType:     chartType(params.Chart),
		MetricOptions: MetricOptions(result, year),
	}

	c.Metric = params.Metric
	if c.Metric == "" && len(c.MetricOptions) > 0 {
		c.Metric = c.MetricOptions[0]
	}

	includeOverall := opts.IncludeOverall
	if params.Overall != nil {
		includeOverall = *params.Overall
	}

	c.Series, c.Empty = ComparisonSeries(result, c.Metric, year, includeOverall)
	return c
}

func chartType(chart string) string {
	switch chart {
	case ChartBar, ChartLine, ChartPie, ChartArea:
		return chart
	default:
		return ChartBar
	}
}

func nonNilRatios(r []types.Ratio) []types.Ratio {
	if r == nil {
		return []types.Ratio{}
	}
	return r
}
