package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/tianbot/internal/core"
)

type SessionManager interface {
	Do(ctx context.Context, id string, fn func(s *core.Session) error) error
	Reset(ctx context.Context, id string) error
}

type ResetCommand struct {
	sessions  SessionManager
	formatter *ResponseFormatter
}

func NewResetCommand(sessions SessionManager) *ResetCommand {
	return &ResetCommand{
		sessions:  sessions,
		formatter: NewResponseFormatter(),
	}
}

func (c *ResetCommand) Name() string {
	return "reset"
}

func (c *ResetCommand) Description() string {
	return "清空当前对话和城市记录"
}

func (c *ResetCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if err := c.sessions.Reset(ctx, sessionID); err != nil {
		return "", fmt.Errorf("failed to reset session: %w", err)
	}
	return c.formatter.Success("对话已重置"), nil
}

type CityCommand struct {
	sessions    SessionManager
	defaultCity string
	formatter   *ResponseFormatter
}

func NewCityCommand(sessions SessionManager, defaultCity string) *CityCommand {
	return &CityCommand{
		sessions:    sessions,
		defaultCity: defaultCity,
		formatter:   NewResponseFormatter(),
	}
}

func (c *CityCommand) Name() string {
	return "city"
}

func (c *CityCommand) Description() string {
	return "查看或设置默认城市"
}

func (c *CityCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	city := strings.TrimSpace(strings.Join(args, " "))

	var current string
	err := c.sessions.Do(ctx, sessionID, func(s *core.Session) error {
		if city != "" {
			s.LastCity = city
		}
		current = s.LastCity
		return nil
	})
	if err != nil {
		return "", err
	}

	if city != "" {
		return c.formatter.Success(fmt.Sprintf("城市已设置为 %s", city)), nil
	}
	if current == "" {
		current = c.defaultCity + "（默认）"
	}
	return c.formatter.Combine(
		c.formatter.Label("当前城市", current),
		c.formatter.Usage("/city 杭州"),
	), nil
}
