package controllers

import (
	"finsight/dashboard"
	"finsight/services"
	"finsight/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SessionControllerI interface {
	Create(ctx *gin.Context)
	Get(ctx *gin.Context)
	Analyze(ctx *gin.Context)
	Result(ctx *gin.Context)
	Dashboard(ctx *gin.Context)
	Reset(ctx *gin.Context)
}

type sessionController struct {
	sessions     *services.SessionStore
	analysis     services.AnalysisServiceI
	options      dashboard.Options
	maxFileBytes int64
}

func NewSessionController(sessions *services.SessionStore, analysis services.AnalysisServiceI, options dashboard.Options, maxFileBytes int64) SessionControllerI {
	return &sessionController{sessions: sessions, analysis: analysis, options: options, maxFileBytes: maxFileBytes}
}

func (s *sessionController) Create(ctx *gin.Context) {
	id := s.sessions.Create()
	ctx.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *sessionController) Get(ctx *gin.Context) {
	snap, err := s.sessions.Get(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

// Analyze replaces the session's result with a new analysis. While it runs the session
// rejects further analyses with 409. The session is released even if the analysis panics.
func (s *sessionController) Analyze(ctx *gin.Context) {
	id := ctx.Param("id")

	req, err := readAnalysisRequest(ctx, s.maxFileBytes)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := s.sessions.Begin(id); err != nil {
		respondError(ctx, err)
		return
	}
	req.SessionID = id

	var result *types.AnalysisResult
	defer func() { s.sessions.Finish(id, result, requestFileName(req)) }()

	result, err = s.analysis.Analyze(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (s *sessionController) Result(ctx *gin.Context) {
	result, _, err := s.sessions.Result(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Dashboard derives the view for the selections in the query string.
func (s *sessionController) Dashboard(ctx *gin.Context) {
	var params dashboard.Params
	if err := ctx.ShouldBindQuery(&params); err != nil {
		respondError(ctx, types.NewError(types.KindValidation, types.MsgInvalidParameter, err))
		return
	}

	result, fileName, err := s.sessions.Result(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dashboard.Build(result, fileName, params, s.options))
}

func (s *sessionController) Reset(ctx *gin.Context) {
	if err := s.sessions.Reset(ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
