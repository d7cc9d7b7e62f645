package llm

import (
	"context"
	"fmt"

	"voxchat/voxchat/config"
)

// Generator turns a prompt into a model reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewGenerator builds the generator selected by cfg.LLMProvider.
func NewGenerator(cfg config.Config) (Generator, error) {
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
		return NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTimeout), nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		return NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}
}
