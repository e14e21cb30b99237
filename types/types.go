package types

import "time"

// Ratio statuses
const (
	StatusGood    = "Good"
	StatusAverage = "Average"
	StatusPoor    = "Poor"
)

// Ratio categories
const (
	CategoryLiquidity     = "Liquidity"
	CategoryProfitability = "Profitability"
	CategoryEfficiency    = "Efficiency"
	CategoryLeverage      = "Leverage"
)

// Anomaly impacts
const (
	ImpactHigh   = "High"
	ImpactMedium = "Medium"
	ImpactLow    = "Low"
)

// Account statuses
const (
	AccountNormal  = "Normal"
	AccountConcern = "Concern"
	AccountGood    = "Good"
)

// AnalysisResult is the complete analysis returned by the model for one document.
// It is never modified after normalization; every view is derived from it.
type AnalysisResult struct {
	Summary         string           `json:"summary"`
	FutureOutlook   string           `json:"future_outlook"`
	FinancialRatios []Ratio          `json:"financial_ratios"`
	KeyMetrics      []Metric         `json:"key_metrics"`
	Anomalies       []Anomaly        `json:"anomalies"`
	AccountInsights []AccountInsight `json:"account_insights,omitempty"`
	EntityInsights  []EntityInsight  `json:"entity_insights,omitempty"`
}

// Ratio is a named financial ratio with its qualitative assessment.
type Ratio struct {
	Name        string   `json:"name"`
	Value       float64  `json:"value"`
	Benchmark   *float64 `json:"benchmark,omitempty"`
	Status      string   `json:"status"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
}

// Metric is a single labelled figure. Year is a free-text fiscal year label such as "2568".
type Metric struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
	Year  string  `json:"year,omitempty"`
}

type Anomaly struct {
	Item          string `json:"item"`
	Observation   string `json:"observation"`
	Impact        string `json:"impact"`
	RelatedEntity string `json:"related_entity,omitempty"`
}

type AccountInsight struct {
	AccountName      string   `json:"account_name"`
	Value            float64  `json:"value"`
	ChangePercentage *float64 `json:"change_percentage,omitempty"`
	Analysis         string   `json:"analysis"`
	Status           string   `json:"status"`
}

// EntityInsight describes one department, branch or cost center found in the document.
type EntityInsight struct {
	Name            string   `json:"name"`
	LiquidityStatus string   `json:"liquidity_status,omitempty"`
	Summary         string   `json:"summary"`
	KeyMetrics      []Metric `json:"key_metrics"`
}

// Content encodings of FileData
const (
	EncodingBase64 = "base64"
	EncodingText   = "text"
)

// FileData is the uniform ingestion output. Content holds base64 for inline binary
// payloads (JPEG, PDF) and plain text for extracted spreadsheet or CSV content.
type FileData struct {
	Content  string `json:"content" binding:"required"`
	MIMEType string `json:"mimeType" binding:"required"`
	Name     string `json:"name"`
	Encoding string `json:"encoding" binding:"required,oneof=base64 text"`
}

// Upload is a file as received from a client, before ingestion.
type Upload struct {
	Name     string
	MIMEType string
	Size     int64
	Data     []byte
}

// Analysis event outcomes
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// AnalysisEvent is published once per analysis attempt. It carries metadata only.
type AnalysisEvent struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id,omitempty"`
	FileName   string    `json:"file_name"`
	MIMEType   string    `json:"mime_type"`
	SizeBytes  int       `json:"size_bytes"`
	Outcome    string    `json:"outcome"`
	ErrorKind  ErrorKind `json:"error_kind,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}
