// Package reply produces the bot's Persian replies. Every operation tries its
// providers in priority order and answers with static content when none of
// them succeeds, so callers always get a non-empty string and never an error.
package reply

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/j0lvera/delbar/internal/config"
	"github.com/j0lvera/delbar/internal/llm"
	"github.com/j0lvera/delbar/internal/metrics"
	"github.com/j0lvera/delbar/internal/music"
	"github.com/rs/zerolog"
)

const (
	opReply   = "reply"
	opMusic   = "music"
	opJoke    = "joke"
	opSupport = "support"

	searchProvider = "radiojavan"
	maxHits        = 3
)

// Sampling settings per operation.
const (
	replyMaxTokens     = 100
	replyTemperature   = 0.7
	jokeMaxTokens      = 50
	jokeTemperature    = 0.8
	supportMaxTokens   = 80
	supportTemperature = 0.9
)

// Replier is the set of operations front ends call.
type Replier interface {
	Reply(ctx context.Context, userMessage string, userID int64) string
	SearchMusic(ctx context.Context, query string) string
	Joke(ctx context.Context) string
	SupportiveMessage(ctx context.Context) string
}

var _ Replier = (*Generator)(nil)

// Searcher looks up music by free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]music.Hit, error)
}

// Rand picks an index in [0, n). It must be safe for concurrent use.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Options configures a Generator. Zero values fall back to defaults: no
// providers, no search, built-in content, the global random source, no logs.
type Options struct {
	Providers llm.Set
	Search    Searcher
	Prompts   config.Prompts
	Messages  config.Messages
	Rand      Rand
	Metrics   metrics.Recorder
	Logger    *zerolog.Logger
}

// Generator answers user requests.
type Generator struct {
	providers llm.Set

	search   Searcher
	prompts  config.Prompts
	messages config.Messages
	rand     Rand
	metrics  metrics.Recorder
	log      zerolog.Logger
}

// New creates a Generator from explicit options.
func New(opts Options) *Generator {
	g := &Generator{
		providers: opts.Providers,
		search:   opts.Search,
		prompts:  opts.Prompts.WithDefaults(),
		messages: opts.Messages.WithDefaults(),
		rand:     opts.Rand,
		metrics:  opts.Metrics,
		log:      zerolog.Nop(),
	}
	if opts.Logger != nil {
		g.log = *opts.Logger
	}
	if g.rand == nil {
		g.rand = globalRand{}
	}
	if g.metrics == nil {
		g.metrics = metrics.Noop{}
	}
	return g
}

// Reply answers a general conversation message, trying the primary provider
// and then the secondary one before apologising. The secondary provider gets
// its own single-turn template.
func (g *Generator) Reply(ctx context.Context, userMessage string, userID int64) string {
	log := g.logger(ctx).With().Str("operation", opReply).Int64("user_id", userID).Logger()

	out, err := g.firstReply(ctx, opReply, plan(
		attempt{g.providers.Primary, llm.Prompt{
			System:      g.prompts.Reply,
			User:        userMessage,
			MaxTokens:   replyMaxTokens,
			Temperature: replyTemperature,
		}},
		attempt{g.providers.Secondary, llm.Prompt{
			User: strings.ReplaceAll(g.prompts.ReplySecondary, "{message}", userMessage),
		}},
	), &log)
	if err != nil {
		g.fallback(opReply, err, &log)
		return g.messages.Apology
	}
	return out
}

// Joke asks the primary provider for a short joke, or picks a canned one.
func (g *Generator) Joke(ctx context.Context) string {
	log := g.logger(ctx).With().Str("operation", opJoke).Logger()

	out, err := g.firstReply(ctx, opJoke, plan(
		attempt{g.providers.Primary, llm.Prompt{
			System:      g.prompts.JokeSystem,
			User:        g.prompts.JokeUser,
			MaxTokens:   jokeMaxTokens,
			Temperature: jokeTemperature,
		}},
	), &log)
	if err != nil {
		g.fallback(opJoke, err, &log)
		return g.pick(g.messages.Jokes, g.messages.Apology)
	}
	return strings.ReplaceAll(g.messages.JokeTemplate, "{joke}", out)
}

// SupportiveMessage asks the secondary provider for an encouraging note, or
// picks a canned one.
func (g *Generator) SupportiveMessage(ctx context.Context) string {
	log := g.logger(ctx).With().Str("operation", opSupport).Logger()

	out, err := g.firstReply(ctx, opSupport, plan(
		attempt{g.providers.Secondary, llm.Prompt{
			User:        g.prompts.Support,
			MaxTokens:   supportMaxTokens,
			Temperature: supportTemperature,
		}},
	), &log)
	if err != nil {
		g.fallback(opSupport, err, &log)
		return g.pick(g.messages.Supportive, g.messages.Apology)
	}
	return out
}

// SearchMusic lists up to three hits for query.
func (g *Generator) SearchMusic(ctx context.Context, query string) string {
	log := g.logger(ctx).With().Str("operation", opMusic).Str("query", query).Logger()

	if g.search == nil {
		g.fallback(opMusic, llm.ErrUnavailable, &log)
		return g.messages.SearchRequest
	}

	hits, err := g.safeSearch(ctx, query)
	if err != nil {
		g.metrics.ProviderCall(opMusic, searchProvider, "error")
		log.Error().Err(err).Msg("music search failed")
		return g.searchFailure(err)
	}
	g.metrics.ProviderCall(opMusic, searchProvider, "ok")

	if len(hits) == 0 {
		return g.messages.SearchEmpty
	}
	return g.formatHits(hits)
}

func (g *Generator) searchFailure(err error) string {
	switch {
	case errors.Is(err, music.ErrNoAccessKey):
		g.metrics.Fallback(opMusic, "unavailable")
		return g.messages.SearchRequest
	case errors.Is(err, music.ErrTimeout):
		g.metrics.Fallback(opMusic, "timeout")
		return g.messages.SearchTimeout
	case errors.Is(err, music.ErrStatus):
		g.metrics.Fallback(opMusic, "status")
		return g.messages.SearchFailed
	case errors.Is(err, music.ErrRequest):
		g.metrics.Fallback(opMusic, "request")
		return g.messages.SearchRequest
	case errors.Is(err, music.ErrDecode):
		g.metrics.Fallback(opMusic, "decode")
		return g.messages.SearchRequest
	default:
		g.metrics.Fallback(opMusic, "unexpected")
		return g.messages.SearchUnexpected
	}
}

func (g *Generator) formatHits(hits []music.Hit) string {
	if len(hits) > maxHits {
		hits = hits[:maxHits]
	}

	var b strings.Builder
	b.WriteString(g.messages.SearchHeader)
	b.WriteString("\n")
	for i, h := range hits {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, orUnknown(h.Title, g.messages.Unknown), orUnknown(h.Artist, g.messages.Unknown))
	}
	return b.String()
}

// attempt is one provider call in a chain.
type attempt struct {
	provider llm.Provider
	prompt   llm.Prompt
}

// plan keeps the attempts whose provider is configured, in order.
func plan(attempts ...attempt) []attempt {
	out := make([]attempt, 0, len(attempts))
	for _, a := range attempts {
		if a.provider != nil {
			out = append(out, a)
		}
	}
	return out
}

// firstReply walks chain in order and returns the first successful output.
// An empty chain yields llm.ErrUnavailable; otherwise the last provider error
// is returned. A cancelled context stops the walk.
func (g *Generator) firstReply(ctx context.Context, op string, chain []attempt, log *zerolog.Logger) (string, error) {
	var lastErr error
	for _, a := range chain {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p := a.provider
		out, err := safeGenerate(ctx, p, a.prompt)
		if err != nil {
			g.metrics.ProviderCall(op, p.Name(), "error")
			log.Warn().Err(err).Str("provider", p.Name()).Msg("provider call failed")
			lastErr = err
			continue
		}

		g.metrics.ProviderCall(op, p.Name(), "ok")
		log.Debug().Str("provider", p.Name()).Msg("provider replied")
		return out, nil
	}

	if lastErr == nil {
		return "", llm.ErrUnavailable
	}
	return "", lastErr
}

func (g *Generator) fallback(op string, err error, log *zerolog.Logger) {
	reason := "error"
	if errors.Is(err, llm.ErrUnavailable) {
		reason = "unavailable"
		log.Debug().Msg("no provider configured, using fallback")
	} else {
		log.Error().Err(err).Msg("all providers failed, using fallback")
	}
	g.metrics.Fallback(op, reason)
}

func (g *Generator) pick(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return items[g.rand.IntN(len(items))]
}

func (g *Generator) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &g.log
}

// safeGenerate turns a provider panic into an error.
func safeGenerate(ctx context.Context, p llm.Provider, prompt llm.Prompt) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", p.Name(), r)
		}
	}()
	out, err = p.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(out) == "" {
		err = fmt.Errorf("%s: %w", p.Name(), llm.ErrEmptyResponse)
	}
	return strings.TrimSpace(out), err
}

func (g *Generator) safeSearch(ctx context.Context, query string) (hits []music.Hit, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("search panicked: %v", r)
		}
	}()
	return g.search.Search(ctx, query)
}

func orUnknown(v, unknown string) string {
	if strings.TrimSpace(v) == "" {
		return unknown
	}
	return v
}
