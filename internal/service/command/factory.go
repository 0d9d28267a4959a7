package command

import (
	"github.com/sandevgo/tianbot/internal/config"
	"github.com/sandevgo/tianbot/internal/core"
)

func NewCommands(
	llmCfg *config.LLMConfig,
	appCfg *config.AppConfig,
	sessions SessionManager,
	index MemoryIndex,
) []core.Command {
	return []core.Command{
		NewModelCommand(llmCfg),
		NewResetCommand(sessions),
		NewCityCommand(sessions, appCfg.DefaultCity),
		NewMemoriesCommand(index),
		NewRememberCommand(index),
	}
}
