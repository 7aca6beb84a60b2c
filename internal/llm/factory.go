package llm

import (
	"fmt"
	"os"

	"github.com/vesselkit/seachest/internal/config"
)

// NewProvider creates the configured provider, wrapped with the
// configured request rate limit when one is set.
func NewProvider(cfg *config.Config) (Provider, error) {
	var provider Provider

	switch cfg.Provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		provider = NewOpenAIProvider(apiKey, cfg.Model)

	case config.ProviderOllama:
		host := cfg.OllamaHost
		if env := os.Getenv("OLLAMA_HOST"); env != "" {
			host = env
		}
		provider = NewOllamaProvider(host, cfg.OllamaModel)

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Provider)
	}

	if cfg.RequestsPerMin > 0 {
		provider = NewRateLimitedProvider(provider, cfg.RequestsPerMin)
	}
	return provider, nil
}
