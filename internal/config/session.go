package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/tianbot/pkg/log"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type SessionConfig struct {
	Backend     string        `env:"TIAN_SESSION_BACKEND" envDefault:"memory"`
	MaxMessages int           `env:"TIAN_SESSION_MAX_MESSAGES" envDefault:"10"`
	MaxSessions int           `env:"TIAN_SESSION_MAX" envDefault:"1000"`
	IdleTTL     time.Duration `env:"TIAN_SESSION_IDLE_TTL" envDefault:"30m"`

	RedisAddr     string `env:"TIAN_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"TIAN_REDIS_PASSWORD"`
	RedisDB       int    `env:"TIAN_REDIS_DB" envDefault:"0"`
}

func NewSessionConfig(ctx context.Context) *SessionConfig {
	c := &SessionConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Session config")
	}
	return c
}
