package music

import (
	"github.com/j0lvera/delbar/internal/config"
	"go.uber.org/fx"
)

// NewFromConfig creates the search client from configuration.
func NewFromConfig(cfg *config.Config) *Client {
	return New(
		cfg.RadioJavanAccessKey,
		WithURL(cfg.RadioJavanURL),
		WithTimeout(cfg.SearchTimeout),
	)
}

// Module provides the music search client
func Module() fx.Option {
	return fx.Module(
		"music",
		fx.Provide(
			NewFromConfig,
		),
	)
}
