package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/tianbot/pkg/log"
)

const (
	MemoryBackendFile   = "file"
	MemoryBackendSQLite = "sqlite"
)

type AppConfig struct {
	RuntimePath string `env:"TIAN_RUNTIME_PATH" envDefault:".tianbot"`

	// Transport Flags
	EnableTelegram bool `env:"TIAN_ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"TIAN_ENABLE_CLI" envDefault:"true"`

	// Agent loop
	MaxSteps              int `env:"TIAN_MAX_STEPS" envDefault:"10"`
	ToolFailureThreshold  int `env:"TIAN_TOOL_FAILURE_THRESHOLD" envDefault:"0"`
	ObservationTokenLimit int `env:"TIAN_OBSERVATION_TOKENS" envDefault:"1500"`

	DefaultCity string `env:"TIAN_DEFAULT_CITY" envDefault:"北京"`

	// User memories
	MemoryBackend   string  `env:"TIAN_MEMORY_BACKEND" envDefault:"file"`
	MemoryThreshold float64 `env:"TIAN_MEMORY_THRESHOLD" envDefault:"0.6"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetMemoryPath() string {
	return filepath.Join(c.RuntimePath, "memories.json")
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "tianbot.db")
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "cli_history")
}

// GetMCPConfigPath points at the optional list of external MCP tool servers.
func (c AppConfig) GetMCPConfigPath() string {
	return filepath.Join(c.RuntimePath, "mcp_servers.json")
}
