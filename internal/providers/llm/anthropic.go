package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/sandevgo/tianbot/internal/core"
)

const anthropicMaxTokens = 4096

type Anthropic struct {
	client      anthropic.Client
	model       string
	temperature float64
}

func NewAnthropic(p Params) *Anthropic {
	opts := []option.RequestOption{option.WithAPIKey(p.APIKey)}
	if p.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(p.BaseURL))
	}
	if p.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(p.Timeout))
	}

	return &Anthropic{
		client:      anthropic.NewClient(opts...),
		model:       p.Model,
		temperature: p.Temperature,
	}
}

// Chat lifts system turns into the request's system blocks; the Messages
// API accepts only user and assistant turns in the conversation.
func (a *Anthropic) Chat(ctx context.Context, history []core.Message) (core.Message, error) {
	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam

	for _, m := range history {
		switch m.Role {
		case core.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case core.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   anthropicMaxTokens,
		Messages:    messages,
		System:      system,
		Temperature: anthropic.Float(a.temperature),
	})
	if err != nil {
		return core.Message{}, fmt.Errorf("anthropic api: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return core.Message{
		Role:    core.RoleAssistant,
		Content: sb.String(),
	}, nil
}

func (a *Anthropic) Models(ctx context.Context) ([]core.Model, error) {
	page, err := a.client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}

	models := make([]core.Model, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, core.Model{ID: m.ID, Name: m.DisplayName})
	}
	return models, nil
}
