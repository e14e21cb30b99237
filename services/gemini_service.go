package services

import (
	"context"
	"encoding/base64"
	"errors"
	"finsight/clients/http_client"
	"finsight/config"
	"finsight/types"
	"fmt"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrNoAPIKey is returned when no Gemini credential was configured at startup.
var ErrNoAPIKey = errors.New("gemini: API key not configured")

// contentGenerator is the part of the genai client used here; *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiServiceI interface {
	// Generate sends the document with the analysis instruction and returns the raw response text.
	Generate(ctx context.Context, file types.FileData) (string, error)
}

type geminiService struct {
	cfg           config.GeminiConfig
	preferredYear string
	models        contentGenerator
}

// NewGeminiService creates the request builder. A missing credential is not fatal here:
// every call fails until the service is restarted with a key.
func NewGeminiService(ctx context.Context, cfg config.GeminiConfig, preferredYear string) (GeminiServiceI, error) {
	s := &geminiService{cfg: cfg, preferredYear: preferredYear}
	if cfg.APIKey == "" {
		zap.L().Warn("Gemini API key is not set (API_KEY or GEMINI_API_KEY); analysis requests will fail")
		return s, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: http_client.NewClient(cfg.RequestTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	s.models = client.Models
	return s, nil
}

func newGeminiServiceWith(models contentGenerator, cfg config.GeminiConfig, preferredYear string) *geminiService {
	return &geminiService{cfg: cfg, preferredYear: preferredYear, models: models}
}

func (s *geminiService) Generate(ctx context.Context, file types.FileData) (string, error) {
	span := sentry.StartSpan(ctx, "[Gemini] GenerateContent")
	defer span.Finish()

	if s.models == nil {
		span.Status = sentry.SpanStatusUnauthenticated
		return "", types.NewError(types.KindService, types.MsgService, ErrNoAPIKey)
	}

	contents, err := BuildContents(file, BuildPrompt(s.preferredYear))
	if err != nil {
		span.Status = sentry.SpanStatusInvalidArgument
		return "", types.NewError(types.KindValidation, types.MsgUnsupportedType, err)
	}

	zap.L().Info("Sending analysis request",
		zap.String("model", s.cfg.Model),
		zap.String("file", file.Name),
		zap.String("mimeType", file.MIMEType),
		zap.String("encoding", file.Encoding))

	result, err := s.models.GenerateContent(span.Context(), s.cfg.Model, contents, s.generationConfig())
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		return "", types.NewError(types.KindService, types.MsgService, fmt.Errorf("gemini generation failed: %w", err))
	}
	if result == nil {
		span.Status = sentry.SpanStatusInternalError
		return "", nil
	}

	span.Status = sentry.SpanStatusOK
	return result.Text(), nil
}

// generationConfig asks for schema-conformant JSON with low temperature and no thinking.
func (s *geminiService) generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(s.cfg.Temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   AnalysisSchema(),
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(s.cfg.ThinkingBudget),
		},
	}
}

// BuildContents assembles the single user turn: the document part first, then the instruction.
// Binary payloads travel inline; extracted text is sent as a text part.
func BuildContents(file types.FileData, prompt string) ([]*genai.Content, error) {
	var docPart *genai.Part
	switch file.Encoding {
	case types.EncodingBase64:
		raw, err := base64.StdEncoding.DecodeString(StripDataURL(file.Content))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 content for %q: %w", file.Name, err)
		}
		docPart = genai.NewPartFromBytes(raw, file.MIMEType)
	case types.EncodingText:
		docPart = genai.NewPartFromText(fmt.Sprintf("File: %s\nContent:\n%s", file.Name, file.Content))
	default:
		return nil, fmt.Errorf("unknown content encoding %q", file.Encoding)
	}

	parts := []*genai.Part{docPart, genai.NewPartFromText(prompt)}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil
}
