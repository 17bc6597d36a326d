package bot

import (
	"context"
	"errors"
	"testing"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

type fakeReplier struct {
	calls []string
	query string
	user  int64
}

func (f *fakeReplier) Reply(ctx context.Context, userMessage string, userID int64) string {
	f.calls = append(f.calls, "reply")
	f.user = userID
	return "reply: " + userMessage
}

func (f *fakeReplier) SearchMusic(ctx context.Context, query string) string {
	f.calls = append(f.calls, "music")
	f.query = query
	return "music: " + query
}

func (f *fakeReplier) Joke(ctx context.Context) string {
	f.calls = append(f.calls, "joke")
	return "joke"
}

func (f *fakeReplier) SupportiveMessage(ctx context.Context) string {
	f.calls = append(f.calls, "support")
	return "support"
}

type fakeSender struct {
	actions  []*tbot.SendChatActionParams
	messages []*tbot.SendMessageParams
	sendErr  error
}

func (f *fakeSender) SendChatAction(ctx context.Context, params *tbot.SendChatActionParams) (bool, error) {
	f.actions = append(f.actions, params)
	return true, nil
}

func (f *fakeSender) SendMessage(ctx context.Context, params *tbot.SendMessageParams) (*models.Message, error) {
	f.messages = append(f.messages, params)
	return &models.Message{}, f.sendErr
}

func TestRoute(t *testing.T) {
	tests := []struct {
		text    string
		want    action
		wantArg string
	}{
		{text: "/start", want: actionStart},
		{text: "/joke", want: actionJoke},
		{text: "/joke@delbar_bot", want: actionJoke},
		{text: "/JOKE", want: actionJoke},
		{text: "جوک بگو", want: actionJoke, wantArg: "بگو"},
		{text: "/music ابی خلیج", want: actionMusic, wantArg: "ابی خلیج"},
		{text: "/music@delbar_bot  Googoosh ", want: actionMusic, wantArg: "Googoosh"},
		{text: "آهنگ شادمهر", want: actionMusic, wantArg: "شادمهر"},
		{text: "/music", want: actionMusic},
		{text: "/support", want: actionSupport},
		{text: "/sad", want: actionSupport},
		{text: "ناراحتم", want: actionSupport},
		{text: "سلام خوبی؟", want: actionReply, wantArg: "سلام خوبی؟"},
		{text: "/unknown", want: actionReply, wantArg: "/unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, arg := route(tt.text)
			if got != tt.want {
				t.Errorf("route(%q) action = %v, want %v", tt.text, got, tt.want)
			}
			if arg != tt.wantArg {
				t.Errorf("route(%q) arg = %q, want %q", tt.text, arg, tt.wantArg)
			}
		})
	}
}

func TestAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("start", func(t *testing.T) {
		r := &fakeReplier{}
		if got := answer(ctx, r, "/start", 1); got != greeting {
			t.Errorf("answer() = %q, want greeting", got)
		}
		if len(r.calls) != 0 {
			t.Errorf("start should not call the generator")
		}
	})

	t.Run("music without query", func(t *testing.T) {
		r := &fakeReplier{}
		if got := answer(ctx, r, "/music", 1); got != musicUsage {
			t.Errorf("answer() = %q, want usage", got)
		}
		if len(r.calls) != 0 {
			t.Errorf("empty query should not search")
		}
	})

	t.Run("music", func(t *testing.T) {
		r := &fakeReplier{}
		if got := answer(ctx, r, "/music ebi", 1); got != "music: ebi" {
			t.Errorf("answer() = %q", got)
		}
	})

	t.Run("free text", func(t *testing.T) {
		r := &fakeReplier{}
		if got := answer(ctx, r, "چطوری؟", 99); got != "reply: چطوری؟" {
			t.Errorf("answer() = %q", got)
		}
		if r.user != 99 {
			t.Errorf("user id = %d, want 99", r.user)
		}
	})
}

func TestHandleMessage(t *testing.T) {
	log := zerolog.Nop()

	t.Run("replies in chat", func(t *testing.T) {
		sender := &fakeSender{}
		r := &fakeReplier{}
		update := &models.Update{Message: &models.Message{
			Chat: models.Chat{ID: 10},
			From: &models.User{ID: 20},
			Text: "/joke",
		}}

		handleMessage(context.Background(), sender, update, r, &log)

		if len(sender.actions) != 1 || sender.actions[0].Action != models.ChatActionTyping {
			t.Errorf("expected a typing action")
		}
		if len(sender.messages) != 1 {
			t.Fatalf("expected 1 message, got %d", len(sender.messages))
		}
		msg := sender.messages[0]
		if msg.ChatID != int64(10) {
			t.Errorf("ChatID = %v, want 10", msg.ChatID)
		}
		if msg.Text != "joke" {
			t.Errorf("Text = %q, want joke", msg.Text)
		}
	})

	t.Run("ignores updates without message or user", func(t *testing.T) {
		sender := &fakeSender{}
		r := &fakeReplier{}

		handleMessage(context.Background(), sender, &models.Update{}, r, &log)
		handleMessage(context.Background(), sender, &models.Update{Message: &models.Message{
			Chat: models.Chat{ID: 10},
			Text: "hi",
		}}, r, &log)

		if len(sender.messages) != 0 || len(r.calls) != 0 {
			t.Errorf("expected no replies, got %d messages and calls %v", len(sender.messages), r.calls)
		}
	})

	t.Run("send failure is absorbed", func(t *testing.T) {
		sender := &fakeSender{sendErr: errors.New("network")}
		update := &models.Update{Message: &models.Message{
			Chat: models.Chat{ID: 1},
			From: &models.User{ID: 2},
			Text: "hello",
		}}

		handleMessage(context.Background(), sender, update, &fakeReplier{}, &log)

		if len(sender.messages) != 1 {
			t.Errorf("expected one send attempt, got %d", len(sender.messages))
		}
	})
}
