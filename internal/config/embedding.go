package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/tianbot/pkg/log"
)

type EmbeddingConfig struct {
	BaseURL    string        `env:"TIAN_EMBEDDING_BASE_URL" envDefault:"https://dashscope.aliyuncs.com/compatible-mode"`
	APIKey     string        `env:"TIAN_EMBEDDING_API_KEY"`
	Model      string        `env:"TIAN_EMBEDDING_MODEL" envDefault:"text-embedding-v3"`
	Dimensions int           `env:"TIAN_EMBEDDING_DIMENSIONS" envDefault:"0"`
	Timeout    time.Duration `env:"TIAN_EMBEDDING_TIMEOUT" envDefault:"30s"`
}

// NewEmbeddingConfig falls back to the LLM key, which is the common case
// when both come from the same DashScope account.
func NewEmbeddingConfig(ctx context.Context) *EmbeddingConfig {
	c := &EmbeddingConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Embedding config")
	}
	if c.APIKey == "" {
		var llm struct {
			APIKey string `env:"TIAN_LLM_API_KEY"`
		}
		_ = env.Parse(&llm)
		c.APIKey = llm.APIKey
	}
	return c
}
