package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

var (
	// ErrUnavailable is returned when no provider is configured for a call.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("empty response from model")
)

// Prompt is a single system/user exchange with its sampling settings.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Provider generates a text reply for a prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, p Prompt) (string, error)
}

// Set holds the configured providers in priority order. Absent providers are nil.
type Set struct {
	Primary   Provider
	Secondary Provider
}

// Model implements Provider on top of a langchaingo model.
type Model struct {
	name   string
	client llms.Model

	// foldSystem sends the system prompt inside the user turn for models
	// that take a single human message.
	foldSystem bool
}

// NewModel wraps a langchaingo model as a Provider.
func NewModel(name string, client llms.Model) *Model {
	return &Model{name: name, client: client}
}

func (m *Model) Name() string { return m.name }

// Generate sends the prompt to the model and returns the trimmed reply.
func (m *Model) Generate(ctx context.Context, p Prompt) (string, error) {
	var opts []llms.CallOption
	if p.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(p.MaxTokens))
	}
	if p.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(p.Temperature))
	}

	resp, err := m.client.GenerateContent(ctx, m.messages(p), opts...)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate content: %w", m.name, err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned from model: %w", m.name, ErrEmptyResponse)
	}

	content := strings.TrimSpace(resp.Choices[0].Content)
	if content == "" {
		return "", fmt.Errorf("%s: %w", m.name, ErrEmptyResponse)
	}

	return content, nil
}

func (m *Model) messages(p Prompt) []llms.MessageContent {
	if m.foldSystem {
		text := p.User
		switch {
		case p.System != "" && p.User != "":
			text = p.System + "\n\n" + p.User
		case p.System != "":
			text = p.System
		}
		return []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, text)}
	}

	msgs := make([]llms.MessageContent, 0, 2)
	if p.System != "" {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, p.System))
	}
	if p.User != "" {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, p.User))
	}
	return msgs
}
