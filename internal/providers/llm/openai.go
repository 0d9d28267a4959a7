package llm

// OpenAI provider is implemented using OpenAICompatible.
type OpenAI struct {
	*OpenAICompatible
}

// NewOpenAI creates a new OpenAI provider.
func NewOpenAI(p Params) *OpenAI {
	if p.BaseURL == "" {
		p.BaseURL = "https://api.openai.com"
	}
	return &OpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			Params:     p,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}),
	}
}
