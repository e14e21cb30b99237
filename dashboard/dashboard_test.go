package dashboard

import (
	"finsight/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metric(label string, value float64, year string) types.Metric {
	return types.Metric{Label: label, Value: value, Unit: "บาท", Year: year}
}

func sampleResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		Summary:       "ภาพรวมองค์กร",
		FutureOutlook: "แนวโน้มดี",
		FinancialRatios: []types.Ratio{
			{Name: "Current Ratio", Value: 1.8, Status: types.StatusGood, Category: types.CategoryLiquidity},
			{Name: "Net Margin", Value: 0.12, Status: types.StatusAverage, Category: types.CategoryProfitability},
			{Name: "Debt to Equity", Value: 2.4, Status: types.StatusPoor, Category: types.CategoryLeverage},
			{Name: "Custom", Value: 0.5, Status: types.StatusGood, Category: "Growth"},
		},
		KeyMetrics: []types.Metric{
			metric("รายได้รวม", 1000, "2568"),
			metric("รายได้รวม", 900, "2567"),
		},
		Anomalies: []types.Anomaly{
			{Item: "A", Impact: types.ImpactLow, RelatedEntity: "กองคลัง"},
			{Item: "B", Impact: types.ImpactHigh},
			{Item: "C", Impact: types.ImpactMedium, RelatedEntity: "กองช่าง"},
		},
		AccountInsights: []types.AccountInsight{
			{AccountName: "เงินสด", Analysis: "สภาพคล่องสูง", Status: types.AccountGood},
			{AccountName: "ลูกหนี้", Analysis: "มีหนี้ค้างชำระนาน", Status: types.AccountConcern},
		},
		EntityInsights: []types.EntityInsight{
			{
				Name:            "กองคลัง",
				LiquidityStatus: "ดี",
				Summary:         "สรุปกองคลัง",
				KeyMetrics: []types.Metric{
					metric("รายได้", 300, "2568"),
					metric("รายได้", 250, "2567"),
					metric("ค่าใช้จ่าย", 200, "2568"),
				},
			},
			{
				Name:    "กองช่าง",
				Summary: "สรุปกองช่าง",
				KeyMetrics: []types.Metric{
					metric("รายได้รวม", 150, "2568"),
				},
			},
			{
				Name:       "กองสาธารณสุข",
				Summary:    "สรุปกองสาธารณสุข",
				KeyMetrics: []types.Metric{metric("ค่าใช้จ่าย", 80, "2568")},
			},
		},
	}
}

func TestSelectTargetYear(t *testing.T) {
	withYears := func(years ...string) *types.AnalysisResult {
		r := &types.AnalysisResult{}
		for _, y := range years {
			r.KeyMetrics = append(r.KeyMetrics, metric("x", 1, y))
		}
		return r
	}

	tests := []struct {
		name   string
		result *types.AnalysisResult
		want   string
	}{
		{name: "current fiscal year wins", result: withYears("2568", "2024"), want: "2568"},
		{name: "fallback year when current absent", result: withYears("2025", "2024"), want: "2025"},
		{name: "string maximum otherwise", result: withYears("2022", "2021"), want: "2022"},
		{name: "priority beats string order", result: withYears("2025", "2568", "2999"), want: "2568"},
		{name: "no years", result: withYears(), want: ""},
		{name: "nil result", result: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectTargetYear(tt.result, DefaultPreferredYears))
		})
	}
}

func TestAvailableYearsIncludesEntityMetrics(t *testing.T) {
	r := &types.AnalysisResult{
		KeyMetrics: []types.Metric{metric("a", 1, "2566"), metric("b", 1, "")},
		EntityInsights: []types.EntityInsight{
			{Name: "x", KeyMetrics: []types.Metric{metric("a", 1, "2568"), metric("a", 1, "2566")}},
		},
	}
	assert.Equal(t, []string{"2568", "2566"}, AvailableYears(r))
}

func TestResolveEntity(t *testing.T) {
	r := sampleResult()

	overview := ResolveEntity(r, OverviewEntity, "2568")
	assert.Equal(t, "ภาพรวมองค์กร", overview.Summary)
	assert.Equal(t, []types.Metric{metric("รายได้รวม", 1000, "2568")}, overview.Metrics)
	assert.False(t, overview.NoData)
	assert.Len(t, ResolveEntity(r, "", "").Metrics, 2)

	entity := ResolveEntity(r, "กองคลัง", "2568")
	assert.Equal(t, "สรุปกองคลัง", entity.Summary)
	assert.Equal(t, "ดี", entity.LiquidityStatus)
	require.Len(t, entity.Metrics, 2)
	for _, m := range entity.Metrics {
		assert.Equal(t, "2568", m.Year)
	}

	missing := ResolveEntity(r, "ไม่มีอยู่จริง", "2568")
	assert.True(t, missing.NoData)
	assert.Equal(t, types.MsgNoEntityData, missing.Summary)
	assert.Empty(t, missing.Metrics)

	assert.NotPanics(t, func() { ResolveEntity(nil, "x", "") })
}

func TestEntitiesAndDuplicates(t *testing.T) {
	r := sampleResult()
	r.EntityInsights = append(r.EntityInsights, types.EntityInsight{Name: "กองคลัง", Summary: "ซ้ำ"})

	assert.Equal(t, []string{OverviewEntity, "กองคลัง", "กองช่าง", "กองสาธารณสุข"}, Entities(r))
	assert.Equal(t, []string{"กองคลัง"}, DuplicateEntities(r))
	assert.Equal(t, "สรุปกองคลัง", ResolveEntity(r, "กองคลัง", "").Summary)

	assert.Equal(t, []string{OverviewEntity}, Entities(&types.AnalysisResult{}))
}

func TestFilterAnomalies(t *testing.T) {
	anomalies := []types.Anomaly{
		{Item: "A", RelatedEntity: "X"},
		{Item: "B"},
		{Item: "C", RelatedEntity: "Y"},
	}

	items := func(as []types.Anomaly) []string {
		out := []string{}
		for _, a := range as {
			out = append(out, a.Item)
		}
		return out
	}

	assert.Equal(t, []string{"A", "B"}, items(FilterAnomalies(anomalies, "X")))
	assert.Equal(t, []string{"A", "B", "C"}, items(FilterAnomalies(anomalies, OverviewEntity)))
	assert.Equal(t, []string{"B"}, items(FilterAnomalies(anomalies, "Z")))
	assert.Empty(t, FilterAnomalies(nil, "X"))
}

func TestRankAnomalies(t *testing.T) {
	anomalies := []types.Anomaly{
		{Item: "1", Impact: types.ImpactLow},
		{Item: "2", Impact: types.ImpactHigh},
		{Item: "3", Impact: types.ImpactMedium},
		{Item: "4", Impact: types.ImpactHigh},
		{Item: "5", Impact: types.ImpactLow},
	}

	ranked := RankAnomalies(anomalies, 5)
	require.Len(t, ranked, 5)
	got := []string{}
	for _, a := range ranked {
		got = append(got, a.Item)
	}
	assert.Equal(t, []string{"2", "4", "3", "1", "5"}, got)
	assert.Equal(t, "1", anomalies[0].Item, "input must not be reordered")

	more := append(anomalies, types.Anomaly{Item: "6", Impact: "Critical"}, types.Anomaly{Item: "7", Impact: types.ImpactHigh})
	ranked = RankAnomalies(more, 10)
	require.Len(t, ranked, MaxRanked)
	assert.Equal(t, "7", ranked[2].Item)

	unknown := RankAnomalies([]types.Anomaly{{Item: "u", Impact: "?"}, {Item: "l", Impact: types.ImpactLow}}, 5)
	assert.Equal(t, "l", unknown[0].Item)
}

func TestRankRatios(t *testing.T) {
	ratios := sampleResult().FinancialRatios

	desc := RankRatios(ratios, SortDesc, 5)
	assert.Equal(t, "Debt to Equity", desc[0].Name)
	assert.Equal(t, "Net Margin", desc[len(desc)-1].Name)

	asc := RankRatios(ratios, SortAsc, 2)
	require.Len(t, asc, 2)
	assert.Equal(t, "Net Margin", asc[0].Name)
	assert.Equal(t, "Custom", asc[1].Name)
}

func TestGroupRatios(t *testing.T) {
	groups := GroupRatios(sampleResult().FinancialRatios)

	cats := []string{}
	for _, g := range groups {
		cats = append(cats, g.Category)
	}
	assert.Equal(t, []string{types.CategoryLiquidity, types.CategoryProfitability, types.CategoryLeverage, OtherCategory}, cats)
	assert.Equal(t, "Custom", groups[3].Ratios[0].Name)
}

func TestMatchesLabel(t *testing.T) {
	assert.True(t, MatchesLabel("รายได้รวม", "รายได้"))
	assert.True(t, MatchesLabel("รายได้", "รายได้รวม"))
	assert.True(t, MatchesLabel("Revenue", "revenue"))
	assert.False(t, MatchesLabel("ค่าใช้จ่าย", "รายได้"))
	assert.False(t, MatchesLabel("รายได้", ""))
}

func TestMetricOptions(t *testing.T) {
	assert.Equal(t, []string{"รายได้", "ค่าใช้จ่าย", "รายได้รวม"}, MetricOptions(sampleResult(), "2568"))
	assert.Equal(t, []string{"รายได้"}, MetricOptions(sampleResult(), "2567"))
	assert.Empty(t, MetricOptions(sampleResult(), "2500"))
}

func TestComparisonSeries(t *testing.T) {
	r := sampleResult()

	points, empty := ComparisonSeries(r, "รายได้", "2568", false)
	assert.False(t, empty)
	assert.Equal(t, []Point{
		{Entity: "กองคลัง", Value: 300, Unit: "บาท"},
		{Entity: "กองช่าง", Value: 150, Unit: "บาท"},
		{Entity: "กองสาธารณสุข", Value: 0},
	}, points)

	points, _ = ComparisonSeries(r, "รายได้", "2568", true)
	require.Len(t, points, 4)
	assert.Equal(t, Point{Entity: OverviewEntity, Value: 1000, Unit: "บาท"}, points[0])

	points, empty = ComparisonSeries(r, "กำไร", "2568", false)
	assert.True(t, empty)
	assert.Empty(t, points)

	points, empty = ComparisonSeries(r, "รายได้", "2560", false)
	assert.True(t, empty)
	assert.Empty(t, points)
}

func TestSearchAccounts(t *testing.T) {
	accounts := sampleResult().AccountInsights

	assert.Len(t, SearchAccounts(accounts, ""), 2)
	assert.Len(t, SearchAccounts(accounts, "   "), 2)

	byAnalysis := SearchAccounts(accounts, "ค้างชำระ")
	require.Len(t, byAnalysis, 1)
	assert.Equal(t, "ลูกหนี้", byAnalysis[0].AccountName)

	byName := SearchAccounts([]types.AccountInsight{{AccountName: "Cash"}, {AccountName: "Receivables"}}, "CASH")
	require.Len(t, byName, 1)
	assert.Equal(t, "Cash", byName[0].AccountName)

	assert.Empty(t, SearchAccounts(nil, "x"))
}

func TestBuild(t *testing.T) {
	r := sampleResult()

	t.Run("defaults to overview and target year", func(t *testing.T) {
		d := Build(r, "งบการเงิน 2568.xlsx", Params{}, DefaultOptions())
		assert.Equal(t, "งบการเงิน 2568", d.DocumentTitle)
		assert.Equal(t, OverviewEntity, d.Entity)
		assert.Equal(t, "2568", d.Year)
		assert.Equal(t, []string{"2568", "2567"}, d.Years)
		assert.Equal(t, "ภาพรวมองค์กร", d.Summary)
		assert.Equal(t, 3, d.AnomalyTotal)
		assert.Equal(t, "B", d.Anomalies[0].Item)
		assert.Equal(t, SortDesc, d.RatioSort)
		assert.Len(t, d.Accounts, 2)
		require.NotNil(t, d.Comparison)
		assert.Equal(t, ChartBar, d.Comparison.ChartType)
		assert.Equal(t, "รายได้", d.Comparison.Metric)
		assert.Len(t, d.Comparison.Series, 3)
		assert.Empty(t, d.Warnings)
	})

	t.Run("overview follows the selected year", func(t *testing.T) {
		d := Build(r, "", Params{Year: "2567"}, DefaultOptions())
		assert.Equal(t, OverviewEntity, d.Entity)
		assert.Equal(t, "2567", d.Year)
		assert.Equal(t, []types.Metric{metric("รายได้รวม", 900, "2567")}, d.Metrics)

		d = Build(r, "", Params{Year: "2560"}, DefaultOptions())
		assert.Empty(t, d.Metrics)
		assert.NotNil(t, d.Metrics)
	})

	t.Run("entity selection filters anomalies", func(t *testing.T) {
		d := Build(r, "", Params{Entity: "กองช่าง", Chart: ChartPie, Sort: SortAsc, Query: "เงินสด"}, DefaultOptions())
		assert.Equal(t, "สรุปกองช่าง", d.Summary)
		assert.Equal(t, 2, d.AnomalyTotal)
		assert.Equal(t, ChartPie, d.Comparison.ChartType)
		assert.Equal(t, SortAsc, d.RatioSort)
		assert.Equal(t, "Net Margin", d.RatioRanking[0].Name)
		assert.Len(t, d.Accounts, 1)
	})

	t.Run("unknown entity degrades to placeholder", func(t *testing.T) {
		d := Build(r, "", Params{Entity: "ไม่มี"}, DefaultOptions())
		assert.True(t, d.NoData)
		assert.Equal(t, types.MsgNoEntityData, d.Summary)
	})

	t.Run("optional panels disabled", func(t *testing.T) {
		opts := DefaultOptions()
		opts.ComparisonEnabled = false
		opts.RatioToggleEnabled = false
		d := Build(r, "", Params{}, opts)
		assert.Nil(t, d.Comparison)
		assert.Empty(t, d.RatioRanking)
	})

	t.Run("overall toggle adds overview point", func(t *testing.T) {
		overall := true
		d := Build(r, "", Params{Metric: "รายได้รวม", Overall: &overall}, DefaultOptions())
		require.NotNil(t, d.Comparison)
		assert.Equal(t, OverviewEntity, d.Comparison.Series[0].Entity)
	})

	t.Run("minimal result", func(t *testing.T) {
		d := Build(&types.AnalysisResult{Summary: "s"}, "", Params{}, DefaultOptions())
		assert.Equal(t, "", d.Year)
		assert.NotNil(t, d.Metrics)
		assert.NotNil(t, d.Ratios)
		assert.NotNil(t, d.Anomalies)
		assert.NotNil(t, d.Accounts)
		assert.Nil(t, d.Comparison)
	})
}
