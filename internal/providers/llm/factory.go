package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/tianbot/internal/config"
	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/pkg/log"
)

// Provider is a chat model that can also list its siblings.
type Provider interface {
	core.AIProvider
	core.ModelLister
}

// NewProvider creates the appropriate AIProvider based on configuration.
func NewProvider(ctx context.Context, cfg *config.LLMConfig) (Provider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	return Build(cfg.Provider, Params{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	})
}

// Build constructs a provider by name. The installer uses it with partial
// params to list models before any config exists.
func Build(provider string, p Params) (Provider, error) {
	switch provider {
	case config.ProviderDashScope:
		return NewDashScope(p), nil
	case config.ProviderOpenAI:
		return NewOpenAI(p), nil
	case config.ProviderAnthropic:
		return NewAnthropic(p), nil
	case config.ProviderOpenRouter:
		return NewOpenRouter(p), nil
	case config.ProviderOllama:
		return NewOllama(p), nil
	case config.ProviderCustom:
		if p.BaseURL == "" {
			return nil, fmt.Errorf("custom provider requires a base url")
		}
		return NewCustomOpenAI(p), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
