package factory

import (
	"fmt"

	"podbot-be/pkg/llm"
	"podbot-be/pkg/llm/anthropic"
	"podbot-be/pkg/llm/ollama"
)

type Config struct {
	Provider        string
	Model           string
	OllamaBaseURL   string
	AnthropicAPIKey string
	Defaults        llm.Options
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewOllamaProvider(cfg.OllamaBaseURL, cfg.Model, cfg.Defaults), nil
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic provider requires ANTHROPIC_API_KEY")
		}
		return anthropic.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.Model, cfg.Defaults), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
