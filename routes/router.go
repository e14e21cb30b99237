package routes

import (
	"finsight/middleware"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine with the standard middleware chain and all API routes.
// maxBodyBytes bounds every request body.
func NewRouter(c Controllers, maxBodyBytes int64) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = maxBodyBytes

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.BodyLimitMiddleware(maxBodyBytes))

	Routes(router, c)
	return router
}
