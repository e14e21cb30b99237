package services

import (
	"encoding/json"
	"errors"
	"finsight/types"
	"finsight/utils/helpers"
	"strings"

	"go.uber.org/zap"
)

var (
	errEmptyResponse = errors.New("model returned no text")
)

// NormalizeResponse parses the raw model text into an AnalysisResult.
// Only transport and syntax problems are rejected; the values themselves are trusted
// as returned, including enum fields outside the declared sets.
func NormalizeResponse(raw string) (*types.AnalysisResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, types.NewError(types.KindEmptyResponse, types.MsgEmptyResponse, errEmptyResponse)
	}

	cleaned := helpers.StripCodeFence(raw)

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		zap.L().Error("Model response is not valid JSON",
			zap.Error(err),
			zap.Int("length", len(raw)),
			zap.String("raw", helpers.Truncate(raw, 4000)))
		return nil, types.NewError(types.KindMalformedResponse, types.MsgMalformed, err)
	}

	fillRequiredLists(&result)
	return &result, nil
}

// fillRequiredLists replaces missing required lists with empty ones so they encode as [].
// Optional lists stay nil and are omitted.
func fillRequiredLists(result *types.AnalysisResult) {
	if result.FinancialRatios == nil {
		result.FinancialRatios = []types.Ratio{}
	}
	if result.KeyMetrics == nil {
		result.KeyMetrics = []types.Metric{}
	}
	if result.Anomalies == nil {
		result.Anomalies = []types.Anomaly{}
	}
	for i := range result.EntityInsights {
		if result.EntityInsights[i].KeyMetrics == nil {
			result.EntityInsights[i].KeyMetrics = []types.Metric{}
		}
	}
}
