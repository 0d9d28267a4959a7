package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/tianbot/pkg/log"
)

const (
	ProviderDashScope  = "dashscope"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderCustom     = "custom"
)

type LLMConfig struct {
	Provider    string        `env:"TIAN_LLM_PROVIDER" envDefault:"dashscope"`
	Model       string        `env:"TIAN_LLM_MODEL" envDefault:"qwen-plus"`
	APIKey      string        `env:"TIAN_LLM_API_KEY"`
	BaseURL     string        `env:"TIAN_LLM_BASE_URL"`
	Temperature float64       `env:"TIAN_LLM_TEMPERATURE" envDefault:"0.5"`
	Timeout     time.Duration `env:"TIAN_LLM_TIMEOUT" envDefault:"120s"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	if c.APIKey == "" && c.Provider != ProviderOllama && c.Provider != ProviderCustom {
		log.FromCtx(ctx).Fatal().Str("provider", c.Provider).Msg("TIAN_LLM_API_KEY is required")
	}
	return c
}
