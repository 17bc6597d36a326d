package llm

import (
	"fmt"

	"github.com/tmc/langchaingo/llms/openai"
)

// NewOpenAI creates a provider for an OpenAI-compatible chat completions API.
func NewOpenAI(apiKey, baseURL, model string) (*Model, error) {
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	return NewModel("openai", client), nil
}
