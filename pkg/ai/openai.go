package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "baholash",
		Subsystem: "ai",
		Name:      "completion_duration_seconds",
		Help:      "Duration of model completion requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "baholash",
		Subsystem: "ai",
		Name:      "completion_failures_total",
		Help:      "Number of failed model completion requests",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI completer.
// Temperature and Model are fixed per process, not tunable per request.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIClient implements Completer against the chat completion API.
type OpenAIClient struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIClient builds a completer from the provided configuration. A
// missing API key is tolerated: the provider rejects the first call and the
// failure surfaces through the normal error path, not at startup.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2048
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	if cfg.APIKey == "" {
		logger.Warn().Msg("no api key configured, completion requests will be rejected by the provider")
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/baholash/baholash-api/pkg/ai/openai"),
		logger: logger,
	}
}

// Complete performs a single completion round trip. No retry, no caching; a
// response with no choices is treated as an empty response, not an error.
func (c *OpenAIClient) Complete(parent context.Context, req CompletionRequest) (string, error) {
	ctx, span := c.tracer.Start(parent, "openai.complete", trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
		attribute.Bool("document.binary", req.Document.Binary()),
	))
	defer span.End()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages:    buildMessages(req),
	})
	aiDuration.WithLabelValues(c.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues(c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("openai complete: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildMessages(req CompletionRequest) []openai.ChatCompletionMessage {
	parts := []openai.ChatMessagePart{
		{
			Type: openai.ChatMessagePartTypeText,
			Text: req.Instruction,
		},
	}

	switch {
	case req.Document.Binary() && strings.HasPrefix(req.Document.MimeType, "image/"):
		// Only image media types may travel as image_url parts.
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: dataURL(req.Document),
			},
		})
	case req.Document.Binary():
		// PDFs and other opaque attachments go through the file part shape.
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeFile,
			File: &openai.ChatMessageFile{
				Filename: partFilename(req.Document.MimeType),
				FileData: dataURL(req.Document),
			},
		})
	default:
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: req.Document.Text,
		})
	}

	return []openai.ChatCompletionMessage{
		{
			Role:         openai.ChatMessageRoleUser,
			MultiContent: parts,
		},
	}
}

func dataURL(p DocumentPart) string {
	return "data:" + p.MimeType + ";base64," + p.Data
}

func partFilename(mimeType string) string {
	if mimeType == "application/pdf" {
		return "document.pdf"
	}
	return "document"
}
