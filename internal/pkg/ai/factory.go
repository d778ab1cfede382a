package ai

import (
	"fmt"

	"github.com/commitollama/commitollama/internal/pkg/config"
)

// Provider name constants.
const (
	ProviderNameOllama = "ollama"
	ProviderNameOpenAI = "openai"
)

// NewClient creates the inference client selected by the settings.
func NewClient(settings config.Settings) (Client, error) {
	cfg := ClientConfig{
		Endpoint: settings.Endpoint,
		APIKey:   settings.APIKey,
		Timeout:  settings.Timeout,
	}

	switch settings.Provider {
	case ProviderNameOllama, "":
		return NewOllamaClient(cfg)
	case ProviderNameOpenAI:
		return NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unknown provider: %s", settings.Provider)
	}
}
