package main

import (
	"github.com/j0lvera/delbar/internal/bot"
	"github.com/j0lvera/delbar/internal/config"
	"github.com/j0lvera/delbar/internal/httpapi"
	"github.com/j0lvera/delbar/internal/llm"
	"github.com/j0lvera/delbar/internal/log"
	"github.com/j0lvera/delbar/internal/metrics"
	"github.com/j0lvera/delbar/internal/music"
	"github.com/j0lvera/delbar/internal/reply"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	fx.New(
		log.Module(),
		config.Module(),
		metrics.Module(),
		llm.Module(),
		music.Module(),
		reply.Module(),
		bot.Module(),
		httpapi.Module(),
	).Run()
}
