// internal/app/system/llm/llm.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// ErrUnavailable is returned when no model has been configured
// (typically a missing API key). Handlers map it to 503.
var ErrUnavailable = errors.New("llm: model not configured")

// Model is the minimal generation surface the agents and assistants
// need. Implementations must be safe for concurrent use.
type Model interface {
	// Generate sends a system instruction and a user prompt and returns
	// the model's text response.
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Config holds the Gemini client settings.
type Config struct {
	APIKey      string
	ModelName   string
	Temperature float64
	MaxTokens   int
}

// Gemini is a Model backed by Google's Gemini API.
type Gemini struct {
	client      *googleai.GoogleAI
	temperature float64
	maxTokens   int
}

// NewGemini creates a Gemini-backed model. It returns ErrUnavailable
// when no API key is configured so callers can degrade gracefully.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrUnavailable
	}
	if cfg.ModelName == "" {
		cfg.ModelName = "gemini-1.5-flash"
	}
	client, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.ModelName),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{
		client:      client,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Generate implements Model.
func (g *Gemini) Generate(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if system != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	opts := []llms.CallOption{llms.WithTemperature(g.temperature)}
	if g.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(g.maxTokens))
	}

	resp, err := g.client.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("gemini returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}
