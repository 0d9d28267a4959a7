package config

import (
	"context"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/tianbot/pkg/log"
)

type WeatherConfig struct {
	Host      string        `env:"TIAN_QWEATHER_HOST,required,notEmpty"`
	Key       string        `env:"TIAN_QWEATHER_KEY,required,notEmpty"`
	Timeout   time.Duration `env:"TIAN_QWEATHER_TIMEOUT" envDefault:"5s"`
	RateLimit float64       `env:"TIAN_QWEATHER_RPS" envDefault:"10"`
}

func NewWeatherConfig(ctx context.Context) *WeatherConfig {
	c := &WeatherConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Weather config")
	}
	return c
}

// BaseURL accepts either a bare QWeather API host or a full URL.
func (c WeatherConfig) BaseURL() string {
	if strings.HasPrefix(c.Host, "http://") || strings.HasPrefix(c.Host, "https://") {
		return c.Host
	}
	return "https://" + c.Host
}
