package generator

import "context"

// Prompt is one request to the text model.
type Prompt struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// LLMClient abstracts the model backend so providers can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings carries provider configuration into concrete clients.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
