package controllers

import (
	"finsight/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AnalysisControllerI interface {
	Analyze(ctx *gin.Context)
}

type analysisController struct {
	analysis     services.AnalysisServiceI
	maxFileBytes int64
}

func NewAnalysisController(analysis services.AnalysisServiceI, maxFileBytes int64) AnalysisControllerI {
	return &analysisController{analysis: analysis, maxFileBytes: maxFileBytes}
}

// Analyze runs one stateless analysis and returns the normalized result.
func (a *analysisController) Analyze(ctx *gin.Context) {
	req, err := readAnalysisRequest(ctx, a.maxFileBytes)
	if err != nil {
		respondError(ctx, err)
		return
	}

	result, err := a.analysis.Analyze(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}
