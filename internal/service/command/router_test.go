package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/tianbot/internal/config"
	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/internal/service/memory"
	"github.com/sandevgo/tianbot/internal/service/session"
)

type mockIndex struct {
	addFn    func(ctx context.Context, text string, metadata map[string]any) memory.Result
	searchFn func(ctx context.Context, query string, k int) ([]memory.Match, memory.Result)
	n        int
}

func (m *mockIndex) AddText(ctx context.Context, text string, metadata map[string]any) memory.Result {
	return m.addFn(ctx, text, metadata)
}

func (m *mockIndex) Search(ctx context.Context, query string, k int) ([]memory.Match, memory.Result) {
	return m.searchFn(ctx, query, k)
}

func (m *mockIndex) Len() int { return m.n }

func newTestRouter(t *testing.T, idx *mockIndex) (*Router, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(0, 0)
	mgr := session.NewManager(store, session.MaxMessages)
	cmds := NewCommands(
		&config.LLMConfig{Provider: "dashscope", Model: "qwen-plus"},
		&config.AppConfig{DefaultCity: "北京"},
		mgr,
		idx,
	)
	return New(cmds), store
}

func TestRouter_NotACommand(t *testing.T) {
	r, _ := newTestRouter(t, &mockIndex{})
	_, handled := r.Execute(context.Background(), "s1", "北京天气")
	assert.False(t, handled)
}

func TestRouter_UnknownCommand(t *testing.T) {
	r, _ := newTestRouter(t, &mockIndex{})
	out, handled := r.Execute(context.Background(), "s1", "/weather")
	assert.True(t, handled)
	assert.Contains(t, out, "未知命令：/weather")
}

func TestRouter_HelpListsSorted(t *testing.T) {
	r, _ := newTestRouter(t, &mockIndex{})

	var names []string
	for _, c := range r.ListCommands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"city", "help", "memories", "model", "remember", "reset"}, names)

	out, handled := r.Execute(context.Background(), "s1", "/help")
	assert.True(t, handled)
	assert.Contains(t, out, "`/reset` 清空当前对话和城市记录")
}

func TestCityAndReset(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRouter(t, &mockIndex{})

	out, _ := r.Execute(ctx, "s1", "/city")
	assert.Contains(t, out, "北京（默认）")

	out, _ = r.Execute(ctx, "s1", "/city 杭州")
	assert.Contains(t, out, "城市已设置为 杭州")

	s, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "杭州", s.LastCity)

	out, _ = r.Execute(ctx, "s1", "/reset")
	assert.Contains(t, out, "对话已重置")
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestMemoryCommands(t *testing.T) {
	ctx := context.Background()
	var saved string
	idx := &mockIndex{
		n: 2,
		addFn: func(ctx context.Context, text string, metadata map[string]any) memory.Result {
			saved = text
			return memory.Result{Status: memory.StatusSuccess}
		},
		searchFn: func(ctx context.Context, query string, k int) ([]memory.Match, memory.Result) {
			if query == "坏" {
				return nil, memory.Result{Status: memory.StatusFailed, Err: errors.New("embedder down")}
			}
			return []memory.Match{{MemoryRecord: core.MemoryRecord{Text: "我怕冷"}, Similarity: 0.91}},
				memory.Result{Status: memory.StatusSuccess}
		},
	}
	r, _ := newTestRouter(t, idx)

	out, _ := r.Execute(ctx, "s1", "/remember 我怕冷")
	assert.Contains(t, out, "已保存用户记忆。")
	assert.Equal(t, "我怕冷", saved)

	out, _ = r.Execute(ctx, "s1", "/memories")
	assert.Contains(t, out, "2 条")

	out, _ = r.Execute(ctx, "s1", "/memories 冷")
	assert.Contains(t, out, "我怕冷 (0.91)")

	out, _ = r.Execute(ctx, "s1", "/memories 坏")
	assert.Contains(t, out, "命令 /memories 执行失败")
	assert.Contains(t, out, "embedder down")
}

func TestModelCommand(t *testing.T) {
	r, _ := newTestRouter(t, &mockIndex{})
	out, _ := r.Execute(context.Background(), "s1", "/model")
	assert.Contains(t, out, "`qwen-plus`")
	assert.Contains(t, out, "`dashscope`")
}
