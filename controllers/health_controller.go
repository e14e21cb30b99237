package controllers

import (
	"finsight/config"
	"finsight/services"

	"github.com/gin-gonic/gin"
)

type HealthControllerI interface {
	IsRunning(ctx *gin.Context)
}

type healthController struct {
	key      config.KeyStatus
	model    string
	sessions *services.SessionStore
}

func NewHealthController(cfg *config.Config, sessions *services.SessionStore) HealthControllerI {
	return &healthController{key: config.CheckAPIKey(cfg), model: cfg.Gemini.Model, sessions: sessions}
}

func (h *healthController) IsRunning(ctx *gin.Context) {
	ctx.JSON(200, gin.H{
		"message":  "Server is running",
		"model":    h.model,
		"apiKey":   h.key,
		"sessions": h.sessions.Len(),
	})
}
