package services

import (
	"context"
	"errors"
	"finsight/types"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalysisRequest is one analysis attempt. Exactly one of Upload or File is set:
// Upload for a raw file, File for a payload that was already ingested.
type AnalysisRequest struct {
	SessionID string
	Upload    *types.Upload
	File      *types.FileData
}

type AnalysisServiceI interface {
	// Analyze runs ingestion, the model call and normalization. It returns a result only
	// when every step succeeded.
	Analyze(ctx context.Context, req AnalysisRequest) (*types.AnalysisResult, error)
}

type analysisService struct {
	ingest IngestServiceI
	gemini GeminiServiceI
	events EventPublisher
}

func NewAnalysisService(ingest IngestServiceI, gemini GeminiServiceI, events EventPublisher) AnalysisServiceI {
	if events == nil {
		events = noopPublisher{}
	}
	return &analysisService{ingest: ingest, gemini: gemini, events: events}
}

var errNoInput = errors.New("no file supplied")

func (s *analysisService) Analyze(ctx context.Context, req AnalysisRequest) (*types.AnalysisResult, error) {
	span := sentry.StartSpan(ctx, "[Analysis] Analyze")
	defer span.Finish()
	ctx = span.Context()

	start := time.Now()
	event := types.AnalysisEvent{
		ID:        uuid.New().String(),
		SessionID: req.SessionID,
	}

	result, err := s.analyze(ctx, req, &event)
	event.DurationMs = time.Since(start).Milliseconds()
	event.Timestamp = time.Now().UTC()

	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		event.Outcome = types.OutcomeFailed
		event.ErrorKind = types.KindOf(err)
		s.report(ctx, err, event)
	} else {
		span.Status = sentry.SpanStatusOK
		event.Outcome = types.OutcomeSucceeded
		zap.L().Info("Analysis completed",
			zap.String("file", event.FileName),
			zap.Int("ratios", len(result.FinancialRatios)),
			zap.Int("anomalies", len(result.Anomalies)),
			zap.Int("entities", len(result.EntityInsights)),
			zap.Int64("durationMs", event.DurationMs))
	}

	if pubErr := s.events.Publish(event); pubErr != nil {
		zap.L().Warn("Failed to publish analysis event", zap.String("event", event.ID), zap.Error(pubErr))
	}

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *analysisService) analyze(ctx context.Context, req AnalysisRequest, event *types.AnalysisEvent) (*types.AnalysisResult, error) {
	var (
		fd  types.FileData
		err error
	)

	switch {
	case req.Upload != nil:
		event.FileName = req.Upload.Name
		event.MIMEType = req.Upload.MIMEType
		event.SizeBytes = len(req.Upload.Data)
		fd, err = s.ingest.Ingest(ctx, *req.Upload)
	case req.File != nil:
		event.FileName = req.File.Name
		event.MIMEType = req.File.MIMEType
		event.SizeBytes = len(req.File.Content)
		fd, err = s.ingest.PrepareFileData(*req.File)
	default:
		err = types.NewError(types.KindValidation, types.MsgUnsupportedType, errNoInput)
	}
	if err != nil {
		return nil, err
	}
	event.MIMEType = fd.MIMEType

	raw, err := s.gemini.Generate(ctx, fd)
	if err != nil {
		return nil, err
	}

	return NormalizeResponse(raw)
}

// report logs every failure and sends service-side ones to Sentry. User input problems
// are not reported.
func (s *analysisService) report(ctx context.Context, err error, event types.AnalysisEvent) {
	kind := types.KindOf(err)
	zap.L().Error("Analysis failed",
		zap.String("file", event.FileName),
		zap.String("kind", string(kind)),
		zap.Error(err))

	if kind == types.KindValidation || kind == types.KindIngestion {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_kind", string(kind))
		scope.SetTag("mime_type", event.MIMEType)
		hub.CaptureException(err)
	})
}
