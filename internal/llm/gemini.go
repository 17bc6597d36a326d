package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/googleai"
)

// NewGemini creates a provider for the Google Gemini API.
func NewGemini(ctx context.Context, apiKey, model string) (*Model, error) {
	client, err := googleai.New(
		ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	m := NewModel("gemini", client)
	m.foldSystem = true
	return m, nil
}
