package llm

// CustomOpenAI targets any self-hosted OpenAI-compatible server.
type CustomOpenAI struct {
	*OpenAICompatible
}

func NewCustomOpenAI(p Params) *CustomOpenAI {
	return &CustomOpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			Params:     p,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}),
	}
}
