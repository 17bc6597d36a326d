package bot

import (
	"context"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/j0lvera/delbar/internal/config"
	"github.com/j0lvera/delbar/internal/reply"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Config    *config.Config
	Generator *reply.Generator
}

type Result struct {
	fx.Out

	Bot *tbot.Bot
}

func New(lc fx.Lifecycle, p Params, log zerolog.Logger) (Result, error) {
	opts := []tbot.Option{
		tbot.WithDefaultHandler(
			func(ctx context.Context, tg *tbot.Bot, update *models.Update) {
				handleMessage(ctx, tg, update, p.Generator, &log)
			},
		),
	}

	tg, err := tbot.New(p.Config.Token, opts...)
	if err != nil {
		return Result{}, err
	}

	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				log.Info().Msg("starting telegram bot...")
				go tg.Start(runCtx)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				log.Info().Msg("stopping telegram bot...")
				cancel()
				return nil
			},
		},
	)

	return Result{
		Bot: tg,
	}, nil
}

func Module() fx.Option {
	return fx.Module(
		"bot",
		fx.Provide(
			New,
		),
		fx.Invoke(
			func(bot *tbot.Bot) {},
		),
	)
}

// Sender is the subset of the Telegram client used to answer a message.
type Sender interface {
	SendChatAction(ctx context.Context, params *tbot.SendChatActionParams) (bool, error)
	SendMessage(ctx context.Context, params *tbot.SendMessageParams) (*models.Message, error)
}

func handleMessage(
	ctx context.Context,
	tg Sender,
	update *models.Update,
	replier reply.Replier,
	log *zerolog.Logger,
) {
	// Guard against nil message
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID

	// Guard against nil user
	if update.Message.From == nil {
		log.Warn().Int64("chat_id", chatID).Msg("received message without user info")
		return
	}

	if update.Message.Text == "" {
		return
	}

	userID := update.Message.From.ID
	reqLog := log.With().
		Str("request_id", uuid.NewString()).
		Int64("chat_id", chatID).
		Int64("user_id", userID).
		Logger()
	ctx = reqLog.WithContext(ctx)

	if _, err := tg.SendChatAction(ctx, &tbot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	}); err != nil {
		reqLog.Debug().Err(err).Msg("unable to send typing action")
	}

	a, _ := route(update.Message.Text)
	reqLog.Info().Str("action", a.String()).Msg("message received")

	text := answer(ctx, replier, update.Message.Text, userID)

	if _, err := tg.SendMessage(ctx, &tbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		reqLog.Error().Err(err).Msg("unable to send reply")
		return
	}
	reqLog.Info().Str("action", a.String()).Msg("reply sent")
}
