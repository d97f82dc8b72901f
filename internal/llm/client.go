package llm

import (
	"context"
	"fmt"
	"strings"
)

// Client is the model-call boundary. Implementations own their own
// timeouts; the orchestrator treats any error or empty result as a
// recoverable attempt failure.
type Client interface {
	Generate(ctx context.Context, prompt string, maxOutputTokens int) (string, error)
}

// ProviderConfig describes one configured model provider. The config
// file carries a list of these; exactly one must be active.
type ProviderConfig struct {
	Name       string `mapstructure:"name"`
	Provider   string `mapstructure:"provider"`
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	Endpoint   string `mapstructure:"endpoint"`
	Deployment string `mapstructure:"deployment"`
	APIVersion string `mapstructure:"api_version"`
	ProjectID  string `mapstructure:"project_id"`
	Active     bool   `mapstructure:"active"`
}

// NewClient returns the provider implementation for a configuration.
func NewClient(cfg ProviderConfig) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini", "":
		return NewGeminiClient(cfg.APIKey, cfg.Model)
	case "openai", "azure-openai":
		return NewAzureOpenAIClient(cfg)
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q (must be gemini, openai or mock)", cfg.Provider)
	}
}

// Ensure interface implementation
var _ Client = (*GeminiClient)(nil)
var _ Client = (*AzureOpenAIClient)(nil)
var _ Client = (*MockClient)(nil)
