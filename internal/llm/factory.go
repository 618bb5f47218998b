package llm

import (
	"fmt"

	"dociq/internal/config"
	"dociq/internal/port"
	"dociq/internal/schema"
)

// NewExtractor creates a ModelExtractor for the configured provider.
func NewExtractor(cfg *config.LLMConfig, prompts *PromptStore, registry *schema.Registry) (port.ModelExtractor, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGemini(cfg, prompts, registry), nil
	case "openai":
		return NewOpenAI(cfg, prompts, registry), nil
	default:
		return nil, fmt.Errorf("unknown model provider: %s", cfg.Provider)
	}
}
