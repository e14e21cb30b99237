package services

import (
	"context"
	"finsight/config"
	"finsight/types"
	"sync"

	"google.golang.org/genai"
)

type fakeModels struct {
	mu       sync.Mutex
	text     string
	nilResp  bool
	err      error
	calls    int
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.model, f.contents, f.config = model, contents, cfg
	if f.err != nil {
		return nil, f.err
	}
	if f.nilResp {
		return nil, nil
	}
	return textResponse(f.text), nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []types.AnalysisEvent
	err    error
}

func (p *recordingPublisher) Publish(e types.AnalysisEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() {}

func testGeminiConfig() config.GeminiConfig {
	return config.GeminiConfig{APIKey: "test-key", Model: "gemini-2.5-flash", Temperature: 0.1}
}

func testIngestConfig() config.IngestConfig {
	return config.IngestConfig{MaxFileBytes: 10 << 20, MaxImageDimension: 1500, MaxImagePixels: 50_000_000, JPEGQuality: 80}
}

const validResponse = `{
  "summary": "ฐานะการเงินมั่นคง",
  "future_outlook": "คาดว่ารายได้จะเพิ่มขึ้น",
  "financial_ratios": [
    {"name": "Current Ratio", "value": 1.85, "benchmark": 1.5, "status": "Good", "category": "Liquidity", "description": "สภาพคล่องดี"}
  ],
  "key_metrics": [
    {"label": "รายได้รวม", "value": 1250000, "unit": "บาท", "year": "2568"}
  ],
  "anomalies": [
    {"item": "ลูกหนี้ค้างนาน", "observation": "เพิ่มขึ้น 40%", "impact": "High", "related_entity": "กองคลัง"}
  ],
  "account_insights": [
    {"account_name": "เงินสด", "value": 500000, "change_percentage": -12.5, "analysis": "ลดลง", "status": "Concern"}
  ],
  "entity_insights": [
    {"name": "กองคลัง", "liquidity_status": "Good", "summary": "ดี", "key_metrics": [{"label": "รายได้", "value": 300000, "year": "2568"}]}
  ]
}`
