package services

import (
	"fmt"

	"google.golang.org/genai"
)

// analysisPrompt is the instruction sent after the document content. %s is the preferred
// fiscal year label.
const analysisPrompt = `You are a senior financial analyst and auditor for a Thai public-sector organization.
Analyze the attached financial document (financial statement, trial balance, budget report or ledger export)
and return ONE JSON object that follows the response schema exactly. Write every narrative field in Thai.

Required sections:
1. summary: an executive summary of the financial position and performance (3-6 sentences).
2. future_outlook: forward-looking assessment, risks and recommendations (2-4 sentences).
3. financial_ratios: compute the ratios the document supports, covering all four categories
   - Liquidity (current ratio, quick ratio, cash ratio)
   - Profitability (net profit margin, return on assets, operating margin)
   - Efficiency (asset turnover, receivable turnover, budget utilization)
   - Leverage (debt to equity, debt ratio)
   For each ratio give a numeric value, a typical benchmark when one exists, a status of Good, Average or Poor,
   the category and a one-sentence description of what the value means for this organization.
4. key_metrics: consolidated headline figures (total assets, total liabilities, revenue, expenses, net income,
   cash and equivalents). Report figures for fiscal year %s when present; otherwise use the latest year in the
   document. Set "year" to the fiscal year label exactly as written in the document (for example "2568" or "2025").
   Include prior-year figures as separate entries with their own year when the document shows them.
   Values are plain numbers without thousands separators; put the currency or unit in "unit".
5. anomalies: unusual items, sharp changes, negative balances, mismatched totals or missing postings.
   Give the item, what was observed, impact High, Medium or Low, and related_entity when the anomaly belongs to
   a specific department; leave related_entity out when it applies to the whole organization.
6. account_insights: the most significant individual accounts (up to 15) with value, change_percentage versus the
   prior period when available, a short analysis and a status of Normal, Concern or Good.
7. entity_insights: one entry per department, division, branch or cost center found in the document.
   Recognize entities by naming patterns such as "กอง", "สำนัก", "ฝ่าย", "ศูนย์", "แผนก", "งาน", "โรงเรียน",
   "โรงพยาบาล", "Department", "Division", "Branch", "Unit" and by column or sheet headers that group accounts.
   Use the entity name exactly as written, never invent or merge entities, and keep names unique.
   For each entity give a liquidity_status (Good, Average or Poor), a short summary and its key_metrics
   using the same labels and year rules as the consolidated key_metrics.
   Omit entity_insights entirely when the document covers a single organization without sub-units.

Rules:
- Use only figures present in or directly derivable from the document; never fabricate numbers.
- Numbers must be JSON numbers. Percentages are expressed as numbers (12.5 means 12.5%%).
- Return only the JSON object, without Markdown fences or commentary.`

// BuildPrompt returns the instruction text for the given preferred fiscal year.
func BuildPrompt(preferredYear string) string {
	if preferredYear == "" {
		preferredYear = "the latest year"
	}
	return fmt.Sprintf(analysisPrompt, preferredYear)
}

func enumSchema(description string, values ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description, Enum: values}
}

func metricSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"label": {Type: genai.TypeString, Description: "Metric name as used in the document"},
			"value": {Type: genai.TypeNumber},
			"unit":  {Type: genai.TypeString, Description: "Currency or unit, e.g. THB"},
			"year":  {Type: genai.TypeString, Description: "Fiscal year label as written in the document"},
		},
		Required:         []string{"label", "value"},
		PropertyOrdering: []string{"label", "value", "unit", "year"},
	}
}

// AnalysisSchema is the declared response schema. It mirrors types.AnalysisResult.
func AnalysisSchema() *genai.Schema {
	ratio := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":        {Type: genai.TypeString},
			"value":       {Type: genai.TypeNumber},
			"benchmark":   {Type: genai.TypeNumber},
			"status":      enumSchema("Assessment of the value", "Good", "Average", "Poor"),
			"category":    enumSchema("Ratio family", "Liquidity", "Profitability", "Efficiency", "Leverage"),
			"description": {Type: genai.TypeString},
		},
		Required:         []string{"name", "value", "status", "category", "description"},
		PropertyOrdering: []string{"name", "value", "benchmark", "status", "category", "description"},
	}

	anomaly := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"item":           {Type: genai.TypeString},
			"observation":    {Type: genai.TypeString},
			"impact":         enumSchema("Severity", "High", "Medium", "Low"),
			"related_entity": {Type: genai.TypeString, Description: "Entity name exactly as in entity_insights"},
		},
		Required:         []string{"item", "observation", "impact"},
		PropertyOrdering: []string{"item", "observation", "impact", "related_entity"},
	}

	account := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"account_name":      {Type: genai.TypeString},
			"value":             {Type: genai.TypeNumber},
			"change_percentage": {Type: genai.TypeNumber},
			"analysis":          {Type: genai.TypeString},
			"status":            enumSchema("Account assessment", "Normal", "Concern", "Good"),
		},
		Required:         []string{"account_name", "value", "analysis", "status"},
		PropertyOrdering: []string{"account_name", "value", "change_percentage", "analysis", "status"},
	}

	entity := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":             {Type: genai.TypeString},
			"liquidity_status": enumSchema("Liquidity of the entity", "Good", "Average", "Poor"),
			"summary":          {Type: genai.TypeString},
			"key_metrics":      {Type: genai.TypeArray, Items: metricSchema()},
		},
		Required:         []string{"name", "summary", "key_metrics"},
		PropertyOrdering: []string{"name", "liquidity_status", "summary", "key_metrics"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary":          {Type: genai.TypeString},
			"future_outlook":   {Type: genai.TypeString},
			"financial_ratios": {Type: genai.TypeArray, Items: ratio},
			"key_metrics":      {Type: genai.TypeArray, Items: metricSchema()},
			"anomalies":        {Type: genai.TypeArray, Items: anomaly},
			"account_insights": {Type: genai.TypeArray, Items: account},
			"entity_insights":  {Type: genai.TypeArray, Items: entity},
		},
		Required: []string{"summary", "future_outlook", "financial_ratios", "key_metrics", "anomalies"},
		PropertyOrdering: []string{
			"summary", "future_outlook", "financial_ratios", "key_metrics",
			"anomalies", "account_insights", "entity_insights",
		},
	}
}
