package config

import (
	"context"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/tianbot/pkg/log"
)

type TelegramConfig struct {
	Token string `env:"TIAN_TELEGRAM_TOKEN,required,notEmpty"`
	// Memories are shared across chats, so the bot only serves listed users.
	AllowedIDs []int64 `env:"TIAN_TELEGRAM_ALLOWED_IDS,required,notEmpty" envSeparator:","`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}

func (c TelegramConfig) Allowed(id int64) bool {
	for _, allowed := range c.AllowedIDs {
		if allowed == id {
			return true
		}
	}
	return false
}
