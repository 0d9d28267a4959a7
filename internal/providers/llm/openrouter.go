package llm

import (
	"github.com/sandevgo/tianbot/internal/core"
)

type OpenRouter struct {
	*OpenAICompatible
}

func NewOpenRouter(p Params) *OpenRouter {
	if p.BaseURL == "" {
		p.BaseURL = "https://openrouter.ai/api"
	}
	return &OpenRouter{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			Params:     p,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
			ExtraHeaders: map[string]string{
				"HTTP-Referer": core.BotRepositoryURL,
				"X-Title":      core.BotName,
			},
		}),
	}
}
