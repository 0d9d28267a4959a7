package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/tianbot/internal/service/memory"
)

type MemoryIndex interface {
	AddText(ctx context.Context, text string, metadata map[string]any) memory.Result
	Search(ctx context.Context, query string, k int) ([]memory.Match, memory.Result)
	Len() int
}

type MemoriesCommand struct {
	index     MemoryIndex
	formatter *ResponseFormatter
}

func NewMemoriesCommand(index MemoryIndex) *MemoriesCommand {
	return &MemoriesCommand{
		index:     index,
		formatter: NewResponseFormatter(),
	}
}

func (c *MemoriesCommand) Name() string {
	return "memories"
}

func (c *MemoriesCommand) Description() string {
	return "按关键词搜索已保存的偏好"
}

func (c *MemoriesCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return c.formatter.Combine(
			c.formatter.Label("已保存记忆", fmt.Sprintf("%d 条", c.index.Len())),
			c.formatter.Usage("/memories 怕冷"),
		), nil
	}

	matches, res := c.index.Search(ctx, query, memory.DefaultK)
	if res.Failed() {
		return "", res.Err
	}
	if len(matches) == 0 {
		return "未找到相关用户记忆。", nil
	}

	items := make([]string, 0, len(matches))
	for _, m := range matches {
		items = append(items, fmt.Sprintf("%s (%.2f)", m.Text, m.Similarity))
	}
	return c.formatter.Combine(
		c.formatter.Info("相关记忆"),
		c.formatter.List(items),
	), nil
}

type RememberCommand struct {
	index     MemoryIndex
	formatter *ResponseFormatter
}

func NewRememberCommand(index MemoryIndex) *RememberCommand {
	return &RememberCommand{
		index:     index,
		formatter: NewResponseFormatter(),
	}
}

func (c *RememberCommand) Name() string {
	return "remember"
}

func (c *RememberCommand) Description() string {
	return "手动保存一条个人偏好"
}

func (c *RememberCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return c.formatter.Usage("/remember 我怕冷，喜欢爬山"), nil
	}

	if res := c.index.AddText(ctx, text, map[string]any{"source": "command"}); res.Failed() {
		return "", res.Err
	}
	return c.formatter.Success("已保存用户记忆。"), nil
}
