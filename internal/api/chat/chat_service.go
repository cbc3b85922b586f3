// Package chat relays travel questions to Gemini. The relay is
// stateless: no history, no retries, no caching.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/ojasmehta/yatra/app/observability/metrics"
)

const defaultTemperature float32 = 0.5

// travelPromptTemplate wraps the raw user question so the model
// answers as a travel assistant with a fixed section layout.
const travelPromptTemplate = `As a travel assistant, I'll help you plan your trip.
Please provide recommendations, tips, and suggestions for the following travel query:

%s

Please format your response with sections for:
1. Top Destinations
2. Best Time to Visit
3. Local Attractions
4. Travel Tips
5. Estimated Budget (in Indian Rupees)`

// BuildTravelPrompt wraps a user question in the travel template.
func BuildTravelPrompt(prompt string) string {
	return fmt.Sprintf(travelPromptTemplate, prompt)
}

// AIClient is the upstream surface the relay depends on; tests swap in
// a mock.
type AIClient interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

// GeminiClient talks to the Gemini API through google.golang.org/genai.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// Ensure implementation satisfies the interface
var _ AIClient = (*GeminiClient)(nil)

func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	ctx, span := otel.Tracer("Chat").Start(ctx, "NewGeminiClient")
	defer span.End()

	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		err := fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Gemini client created")
	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (ai *GeminiClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	ctx, span := otel.Tracer("Chat").Start(ctx, "GenerateContent", trace.WithAttributes(
		attribute.Int("prompt.length", len(prompt)),
		attribute.String("model", ai.model),
	))
	defer span.End()

	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	responseText := result.Text()
	span.SetAttributes(attribute.Int("response.length", len(responseText)))
	span.SetStatus(codes.Ok, "Content generated")
	return responseText, nil
}

// Service relays one prompt at a time.
type Service interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	logger   *slog.Logger
	aiClient AIClient
	metrics  *metrics.AppMetrics
}

func NewService(aiClient AIClient, appMetrics *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		aiClient: aiClient,
		metrics:  appMetrics,
	}
}

// Ask forwards the templated prompt upstream and returns the model's
// text verbatim.
func (s *ServiceImpl) Ask(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	response, err := s.aiClient.GenerateContent(ctx, BuildTravelPrompt(prompt),
		&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](defaultTemperature)})

	if s.metrics != nil {
		s.metrics.ChatRelayDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Upstream chat request failed", slog.Any("error", err))
		return "", err
	}
	return response, nil
}
