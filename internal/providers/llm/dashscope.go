package llm

// DashScopeBaseURL is Alibaba Cloud's OpenAI-compatible endpoint.
const DashScopeBaseURL = "https://dashscope.aliyuncs.com/compatible-mode"

type DashScope struct {
	*OpenAICompatible
}

func NewDashScope(p Params) *DashScope {
	if p.BaseURL == "" {
		p.BaseURL = DashScopeBaseURL
	}
	return &DashScope{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			Params:     p,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}),
	}
}
