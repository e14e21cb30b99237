package main

import (
	"context"
	"finsight/config"
	"finsight/controllers"
	"finsight/dashboard"
	"finsight/routes"
	"finsight/services"
	"fmt"

	"github.com/gin-gonic/gin"
)

// app holds the services assembled from one configuration.
type app struct {
	cfg      *config.Config
	ingest   services.IngestServiceI
	analysis services.AnalysisServiceI
	sessions *services.SessionStore
	events   services.EventPublisher
	options  dashboard.Options
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	events, err := services.NewEventPublisher(cfg.Events)
	if err != nil {
		return nil, err
	}

	gemini, err := services.NewGeminiService(ctx, cfg.Gemini, cfg.Dashboard.CurrentYear)
	if err != nil {
		events.Close()
		return nil, fmt.Errorf("error creating gemini service: %w", err)
	}

	ingest := services.NewIngestService(cfg.Ingest)
	return &app{
		cfg:      cfg,
		ingest:   ingest,
		analysis: services.NewAnalysisService(ingest, gemini, events),
		sessions: services.NewSessionStore(cfg.Session),
		events:   events,
		options:  dashboard.OptionsFromConfig(cfg.Dashboard),
	}, nil
}

// maxBodyBytes leaves room for base64 JSON payloads and multipart framing.
func (a *app) maxBodyBytes() int64 {
	return a.cfg.Ingest.MaxFileBytes*2 + 1<<20
}

func (a *app) router() *gin.Engine {
	limit := a.cfg.Ingest.MaxFileBytes
	return routes.NewRouter(routes.Controllers{
		Health:   controllers.NewHealthController(a.cfg, a.sessions),
		File:     controllers.NewFileController(a.ingest),
		Analysis: controllers.NewAnalysisController(a.analysis, limit),
		Session:  controllers.NewSessionController(a.sessions, a.analysis, a.options, limit),
	}, a.maxBodyBytes())
}
