package reply

import (
	"github.com/j0lvera/delbar/internal/config"
	"github.com/j0lvera/delbar/internal/llm"
	"github.com/j0lvera/delbar/internal/metrics"
	"github.com/j0lvera/delbar/internal/music"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Config    *config.Config
	Providers llm.Set
	Search    *music.Client
	Metrics   metrics.Recorder
	Logger    zerolog.Logger
}

// NewFromParams builds the Generator from the application's providers.
func NewFromParams(p Params) *Generator {
	logger := p.Logger.With().Str("component", "reply").Logger()

	return New(Options{
		Providers: p.Providers,
		Search:    p.Search,
		Prompts:   p.Config.Prompts,
		Messages:  p.Config.Messages,
		Metrics:   p.Metrics,
		Logger:    &logger,
	})
}

func Module() fx.Option {
	return fx.Module(
		"reply",
		fx.Provide(
			NewFromParams,
		),
	)
}
