package llm

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/agenthands/concord/internal/config"
)

// ErrDisabled is returned when no provider is configured.
var ErrDisabled = errors.New("llm provider not configured")

func NewClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))

	switch provider {
	case "":
		return nil, ErrDisabled

	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return c, nil

	case "claude", "anthropic":
		return NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "ollama":
		// Ollama speaks the OpenAI protocol under /v1 and ignores the key.
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		return NewOpenAIClient(apiKey, cfg.Model, OllamaBaseURL(cfg.BaseURL)), nil

	default:
		return nil, errors.Errorf("unsupported llm provider: %s", provider)
	}
}

// OllamaBaseURL points a plain Ollama address at its OpenAI-compatible API.
func OllamaBaseURL(base string) string {
	if base == "" {
		base = "http://localhost:11434"
	}
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(base, "/v1") {
		return base
	}
	return base + "/v1"
}
