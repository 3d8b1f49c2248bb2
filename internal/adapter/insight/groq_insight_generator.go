package insight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studypulse/internal/config"
	"studypulse/internal/logger"

	"github.com/tmc/langchaingo/llms"
	openaiLLM "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// GroqInsightGenerator implements domain.InsightGenerator against Groq's
// OpenAI-compatible chat completion API via LangchainGo.
type GroqInsightGenerator struct {
	llmClient   *openaiLLM.LLM
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// NewGroqInsightGenerator creates a new GroqInsightGenerator from LLM config.
func NewGroqInsightGenerator(cfg config.LLMConfig) (*GroqInsightGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq API key cannot be empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("groq model name cannot be empty")
	}

	llm, err := openaiLLM.New(
		openaiLLM.WithBaseURL(cfg.BaseURL),
		openaiLLM.WithToken(cfg.APIKey),
		openaiLLM.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI-compatible client for Groq: %w", err)
	}

	return &GroqInsightGenerator{
		llmClient:   llm,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
	}, nil
}

// Generate implements domain.InsightGenerator
func (g *GroqInsightGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := llms.GenerateFromSinglePrompt(callCtx, g.llmClient, prompt,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("Insight LLM request timed out", zap.Error(err), zap.Duration("timeout", g.timeout))
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		l.Error("Failed to get response from insight LLM", zap.Error(err))
		return "", fmt.Errorf("LLM call failed: %w", err)
	}

	l.Debug("Raw insight LLM response received", zap.Int("length", len(response)))
	return response, nil
}
