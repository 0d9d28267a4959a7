package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/tianbot/internal/service/memory"
	"github.com/sandevgo/tianbot/pkg/log"
)

const searchK = 5

type MemoryIndex interface {
	AddText(ctx context.Context, text string, metadata map[string]any) memory.Result
	Search(ctx context.Context, query string, k int) ([]memory.Match, memory.Result)
}

type Memory struct {
	index MemoryIndex
}

func NewMemory(index MemoryIndex) *Memory {
	return &Memory{index: index}
}

func (m *Memory) SearchMemories(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	matches, res := m.index.Search(ctx, in.Query, searchK)
	if res.Failed() {
		return "", fmt.Errorf("memory search failed: %w", res.Err)
	}
	if len(matches) == 0 {
		return "未找到相关用户记忆。", nil
	}

	texts := make([]string, len(matches))
	for i, match := range matches {
		texts[i] = match.Text
	}
	return strings.Join(texts, "; "), nil
}

// SaveMemory always acknowledges; the user should not see storage trouble.
func (m *Memory) SaveMemory(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	if res := m.index.AddText(ctx, in.Content, map[string]any{"source": "agent"}); res.Failed() {
		log.FromCtx(ctx).Error().Err(res.Err).Msg("failed to save user memory")
	}
	return "已保存用户记忆。", nil
}

func (m *Memory) Descriptors() []Descriptor {
	return []Descriptor{
		{
			Name:        "search_user_memories",
			Description: "搜索用户的历史偏好或记忆。在生成个性化建议（如行李清单、行程规划）前应调用。",
			Params: []Param{
				{Name: "query", Type: TypeString, Description: `搜索关键词，如"喜欢"、"怕冷"、"旅行偏好"`, Required: true},
			},
			Handler: m.SearchMemories,
		},
		{
			Name:        "save_user_memory",
			Description: "当用户明确表达个人喜好、习惯或厌恶时，保存该信息。",
			Params: []Param{
				{Name: "content", Type: TypeString, Description: "要保存的用户偏好内容", Required: true},
			},
			Handler: m.SaveMemory,
		},
	}
}
