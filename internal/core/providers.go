package core

import "context"

// AIProvider is a stateless text-completion capability. The full
// conversation is passed on every call.
type AIProvider interface {
	Chat(ctx context.Context, history []Message) (Message, error)
}

// Embedder maps text to a fixed-length vector. Documents and queries use
// the same embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length"`
}

// ModelLister is implemented by providers that can enumerate their models.
type ModelLister interface {
	Models(ctx context.Context) ([]Model, error)
}
