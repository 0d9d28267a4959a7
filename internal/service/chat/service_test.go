package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/internal/service/session"
)

type mockRunner struct {
	runFn func(ctx context.Context, utterance string, history []core.Message) (string, error)
}

func (m *mockRunner) RunTurn(ctx context.Context, utterance string, history []core.Message) (string, error) {
	return m.runFn(ctx, utterance, history)
}

type mockRouter struct{}

func (mockRouter) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	if input == "/ping" {
		return "pong", true
	}
	return "", false
}

func (mockRouter) ListCommands() []core.Command { return nil }

func newTestService(runner *mockRunner) (*Service, *session.MemoryStore) {
	store := session.NewMemoryStore(0, 0)
	return NewService(session.NewManager(store, session.MaxMessages), runner, mockRouter{}, "北京"), store
}

func TestExtractCity(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "上海明天下雨吗", want: "上海"},
		{text: "我想去丽江市玩", want: "丽江市"},
		{text: "安吉县周末天气", want: "安吉县"},
		{text: "明天穿什么", want: ""},
		{text: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCity(tt.text))
		})
	}
}

func TestHandle_SixTurnsKeepLastTen(t *testing.T) {
	ctx := context.Background()
	turn := 0
	svc, store := newTestService(&mockRunner{runFn: func(ctx context.Context, utterance string, history []core.Message) (string, error) {
		turn++
		return fmt.Sprintf("a%d", turn), nil
	}})

	for i := 1; i <= 6; i++ {
		_, err := svc.Handle(ctx, "s1", fmt.Sprintf("q%d", i))
		require.NoError(t, err)
	}

	s, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, s.Messages, 10)
	assert.Equal(t, core.Message{Role: core.RoleUser, Content: "q2"}, s.Messages[0])
	assert.Equal(t, core.Message{Role: core.RoleAssistant, Content: "a6"}, s.Messages[9])
}

func TestHandle_CityResolution(t *testing.T) {
	ctx := context.Background()
	var utterances []string
	svc, store := newTestService(&mockRunner{runFn: func(ctx context.Context, utterance string, history []core.Message) (string, error) {
		utterances = append(utterances, utterance)
		return "ok", nil
	}})

	_, err := svc.Handle(ctx, "s1", "今天冷吗")
	require.NoError(t, err)
	_, err = svc.Handle(ctx, "s1", "杭州呢")
	require.NoError(t, err)
	_, err = svc.Handle(ctx, "s1", "明天呢")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"（当前关注城市：北京）\n今天冷吗",
		"（当前关注城市：杭州）\n杭州呢",
		"（当前关注城市：杭州）\n明天呢",
	}, utterances)

	s, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "杭州", s.LastCity)
	assert.Equal(t, "明天呢", s.Messages[4].Content, "history keeps the raw user text")
}

func TestHandle_HistoryPassedToAgent(t *testing.T) {
	ctx := context.Background()
	var seen [][]core.Message
	svc, _ := newTestService(&mockRunner{runFn: func(ctx context.Context, utterance string, history []core.Message) (string, error) {
		seen = append(seen, history)
		return "ok", nil
	}})

	_, _ = svc.Handle(ctx, "s1", "q1")
	_, _ = svc.Handle(ctx, "s1", "q2")

	assert.Empty(t, seen[0])
	assert.Equal(t, []core.Message{
		{Role: core.RoleUser, Content: "q1"},
		{Role: core.RoleAssistant, Content: "ok"},
	}, seen[1])
}

func TestHandle_AgentFailureLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("model down")
	svc, store := newTestService(&mockRunner{runFn: func(ctx context.Context, utterance string, history []core.Message) (string, error) {
		return "", boom
	}})

	_, err := svc.Handle(ctx, "s1", "上海天气")
	require.ErrorIs(t, err, boom)

	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestHandle_CommandsBypassAgent(t *testing.T) {
	svc, _ := newTestService(&mockRunner{runFn: func(ctx context.Context, utterance string, history []core.Message) (string, error) {
		t.Fatal("agent must not run for commands")
		return "", nil
	}})

	reply, err := svc.Handle(context.Background(), "s1", "/ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", reply)

	reply, err = svc.Handle(context.Background(), "s1", "   ")
	require.NoError(t, err)
	assert.Empty(t, reply)
}
