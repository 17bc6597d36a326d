package llm

import (
	"context"

	"github.com/j0lvera/delbar/internal/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Params for creating the provider set
type Params struct {
	fx.In

	Config *config.Config
	Logger zerolog.Logger
}

// Result of creating the provider set
type Result struct {
	fx.Out

	Providers Set
}

// New creates the providers whose credentials are configured
func New(p Params) (Result, error) {
	var set Set

	if p.Config.OpenAIAPIKey != "" {
		primary, err := NewOpenAI(p.Config.OpenAIAPIKey, p.Config.OpenAIBaseURL, p.Config.OpenAIModel)
		if err != nil {
			return Result{}, err
		}
		set.Primary = primary
	}

	if p.Config.GeminiAPIKey != "" {
		secondary, err := NewGemini(context.Background(), p.Config.GeminiAPIKey, p.Config.GeminiModel)
		if err != nil {
			// Gemini is optional; the chain works without it.
			p.Logger.Warn().Err(err).Msg("gemini disabled")
		} else {
			set.Secondary = secondary
		}
	}

	p.Logger.Info().
		Bool("openai", set.Primary != nil).
		Bool("gemini", set.Secondary != nil).
		Msg("text providers configured")

	return Result{Providers: set}, nil
}

// Module provides the text-generation providers
func Module() fx.Option {
	return fx.Module(
		"llm",
		fx.Provide(
			New,
		),
	)
}
