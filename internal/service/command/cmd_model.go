package command

import (
	"context"

	"github.com/sandevgo/tianbot/internal/config"
)

type ModelCommand struct {
	cfg       *config.LLMConfig
	formatter *ResponseFormatter
}

func NewModelCommand(cfg *config.LLMConfig) *ModelCommand {
	return &ModelCommand{
		cfg:       cfg,
		formatter: NewResponseFormatter(),
	}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "查看当前使用的模型"
}

func (c *ModelCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	return c.formatter.Combine(
		c.formatter.Info("当前模型"),
		c.formatter.Label("Provider", c.cfg.Provider),
		c.formatter.Label("Model", c.cfg.Model),
	), nil
}
