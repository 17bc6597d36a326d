package bot

import (
	"context"
	"strings"

	"github.com/j0lvera/delbar/internal/reply"
)

const (
	greeting = "سلام بهنوش جان! 🌸 من اینجام که باهات حرف بزنم.\n" +
		"/joke یه جوک بشنو\n" +
		"/music <اسم آهنگ> آهنگ پیدا کن\n" +
		"/support وقتی دلت گرفته"
	musicUsage = "بهنوش جان، اسم آهنگ یا خواننده رو بعد از /music بنویس. مثلا: /music ابی"
)

type action int

const (
	actionReply action = iota
	actionStart
	actionJoke
	actionMusic
	actionSupport
)

func (a action) String() string {
	switch a {
	case actionStart:
		return "start"
	case actionJoke:
		return "joke"
	case actionMusic:
		return "music"
	case actionSupport:
		return "support"
	default:
		return "reply"
	}
}

var commands = map[string]action{
	"/start":   actionStart,
	"/help":    actionStart,
	"/joke":    actionJoke,
	"جوک":      actionJoke,
	"/music":   actionMusic,
	"آهنگ":     actionMusic,
	"/support": actionSupport,
	"/sad":     actionSupport,
	"ناراحتم":  actionSupport,
}

// route maps a message to an action and its argument. Commands may carry a
// bot mention, as in "/joke@delbar_bot".
func route(text string) (action, string) {
	text = strings.TrimSpace(text)
	head, rest, _ := strings.Cut(text, " ")
	if strings.HasPrefix(head, "/") {
		head, _, _ = strings.Cut(head, "@")
	}

	a, ok := commands[strings.ToLower(head)]
	if !ok {
		return actionReply, text
	}
	return a, strings.TrimSpace(rest)
}

// answer computes the reply text for a message.
func answer(ctx context.Context, r reply.Replier, text string, userID int64) string {
	a, arg := route(text)
	switch a {
	case actionStart:
		return greeting
	case actionJoke:
		return r.Joke(ctx)
	case actionSupport:
		return r.SupportiveMessage(ctx)
	case actionMusic:
		if arg == "" {
			return musicUsage
		}
		return r.SearchMusic(ctx, arg)
	default:
		return r.Reply(ctx, text, userID)
	}
}
