package routes

import (
	"finsight/controllers"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Health   controllers.HealthControllerI
	File     controllers.FileControllerI
	Analysis controllers.AnalysisControllerI
	Session  controllers.SessionControllerI
}

func Routes(r *gin.Engine, c Controllers) {

	v1 := r.Group("/api")

	{
		v1.GET("/health", c.Health.IsRunning)
		v1.POST("/files/inspect", c.File.Inspect)
		v1.POST("/analyze", c.Analysis.Analyze)

		v1.POST("/sessions", c.Session.Create)
		v1.GET("/sessions/:id", c.Session.Get)
		v1.POST("/sessions/:id/analyze", c.Session.Analyze)
		v1.GET("/sessions/:id/result", c.Session.Result)
		v1.GET("/sessions/:id/dashboard", c.Session.Dashboard)
		v1.DELETE("/sessions/:id", c.Session.Reset)
	}
}
