package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/tianbot/internal/config"
	"github.com/sandevgo/tianbot/internal/core"
)

func TestOpenAICompatible_Chat(t *testing.T) {
	var got struct {
		Model       string         `json:"model"`
		Messages    []core.Message `json:"messages"`
		Temperature float64        `json:"temperature"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"你好"}}]}`)
	}))
	defer srv.Close()

	p := NewDashScope(Params{BaseURL: srv.URL, APIKey: "sk-test", Model: "qwen-plus", Temperature: DefaultTemperature})
	reply, err := p.Chat(context.Background(), []core.Message{
		{Role: core.RoleSystem, Content: "sys"},
		{Role: core.RoleUser, Content: "hi"},
	})
	require.NoError(t, err)

	assert.Equal(t, core.Message{Role: core.RoleAssistant, Content: "你好"}, reply)
	assert.Equal(t, "qwen-plus", got.Model)
	assert.InDelta(t, 0.5, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, core.RoleSystem, got.Messages[0].Role)
}

func TestOpenAICompatible_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer srv.Close()

	p := NewOpenAI(Params{BaseURL: srv.URL, APIKey: "k", Model: "m"})
	reply, err := p.Chat(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Content)
	assert.Equal(t, core.RoleAssistant, reply.Role)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAICompatible_ClientErrorIsFinal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"bad key"}`)
	}))
	defer srv.Close()

	p := NewOpenRouter(Params{BaseURL: srv.URL, APIKey: "k", Model: "m"})
	_, err := p.Chat(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 401")
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAICompatible_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	p := NewCustomOpenAI(Params{BaseURL: srv.URL, Model: "m"})
	_, err := p.Chat(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}})
	assert.ErrorContains(t, err, "empty choices")
}

func TestOpenAICompatible_Models(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		fmt.Fprint(w, `{"data":[{"id":"qwen-plus"},{"id":"qwen-max","name":"Qwen Max"}]}`)
	}))
	defer srv.Close()

	models, err := NewDashScope(Params{BaseURL: srv.URL, APIKey: "k"}).Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Model{
		{ID: "qwen-plus", Name: "qwen-plus"},
		{ID: "qwen-max", Name: "Qwen Max"},
	}, models)
}

func TestOllama_Models(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		fmt.Fprint(w, `{"models":[{"name":"qwen2.5:7b"}]}`)
	}))
	defer srv.Close()

	models, err := NewOllama(Params{BaseURL: srv.URL}).Models(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "qwen2.5:7b", models[0].ID)
}

func TestAnthropic_Chat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"msg_1","type":"message","role":"assistant","model":"x",`+
			`"content":[{"type":"text","text":"晴天"}],"stop_reason":"end_turn",`+
			`"usage":{"input_tokens":1,"output_tokens":1}}`)
	}))
	defer srv.Close()

	p := NewAnthropic(Params{BaseURL: srv.URL, APIKey: "k", Model: "claude-x", Temperature: 0.5})
	reply, err := p.Chat(context.Background(), []core.Message{
		{Role: core.RoleSystem, Content: "你是小天"},
		{Role: core.RoleUser, Content: "天气"},
		{Role: core.RoleAssistant, Content: "哪个城市？"},
		{Role: core.RoleUser, Content: "北京"},
	})
	require.NoError(t, err)
	assert.Equal(t, core.Message{Role: core.RoleAssistant, Content: "晴天"}, reply)

	system, ok := got["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 3)
}

func TestBuild(t *testing.T) {
	for _, name := range []string{
		config.ProviderDashScope,
		config.ProviderOpenAI,
		config.ProviderAnthropic,
		config.ProviderOpenRouter,
		config.ProviderOllama,
	} {
		p, err := Build(name, Params{Model: "m"})
		require.NoError(t, err, name)
		assert.NotNil(t, p)
	}

	_, err := Build(config.ProviderCustom, Params{})
	assert.Error(t, err)

	_, err = Build("gpt-neo", Params{})
	assert.ErrorContains(t, err, "unknown llm provider")
}
