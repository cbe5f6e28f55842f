package bot

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pinwager/pinwager/internal/pipeline"
	"github.com/pinwager/pinwager/internal/pkg/config"
	"github.com/pinwager/pinwager/internal/pkg/settings"
)

func lastReply(t *testing.T, api *fakeAPI) tgbotapi.MessageConfig {
	t.Helper()
	msgs := api.messages()
	if len(msgs) == 0 {
		t.Fatal("no reply was sent")
	}
	return msgs[len(msgs)-1]
}

func TestCommandReplies(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    string
	}{
		{"stake updates", "/stake 7.5", "✅ Base stake updated to €7.5"},
		{"stake accepts comma decimals", "/stake 7,5", "✅ Base stake updated to €7.5"},
		{"stake below minimum", "/stake 2", "⚠️ Minimum stake is 5 EUR."},
		{"stake invalid", "/stake abc", "⚠️ Invalid stake amount."},
		{"stake missing argument", "/stake", "⚠️ Use: /stake <amount>"},
		{"sports tennis only", "/sports tennis", "✅ Sports updated: Tennis=true Football=false"},
		{"sports football only", "/sports football", "✅ Sports updated: Tennis=false Football=true"},
		{"sports both", "/sports both", "✅ Sports updated: Tennis=true Football=true"},
		{"sports invalid", "/sports padel", "⚠️ Use: /sports tennis | football | both"},
		{"odds update", "/odds 0.05", "✅ Odds tolerance updated to 0.05"},
		{"odds invalid", "/odds fast", "⚠️ Invalid number."},
		{"odds negative rejected", "/odds -0.5", "⚠️ Invalid number."},
		{"uppercase command", "/STAKE 8", "✅ Base stake updated to €8"},
		{"command addressed to the bot", "/stake@tipbot 9", "✅ Base stake updated to €9"},
		{"unknown command", "/magic", "Unknown command. Use /help to see available commands."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, api := newTestBot(t, &fakeBook{})

			b.handleCommand(tt.command)

			if got := lastReply(t, api).Text; got != tt.want {
				t.Errorf("reply = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHelpCommandUsesMarkdown(t *testing.T) {
	for _, cmd := range []string{"/help", "/start"} {
		b, api := newTestBot(t, &fakeBook{})

		b.handleCommand(cmd)

		reply := lastReply(t, api)
		if reply.Text != helpText {
			t.Errorf("%s reply = %q, want the help text", cmd, reply.Text)
		}
		if reply.ParseMode != tgbotapi.ModeMarkdown {
			t.Errorf("%s parse mode = %q, want Markdown", cmd, reply.ParseMode)
		}
	}
}

func TestShowConfigCommand(t *testing.T) {
	b, api := newTestBot(t, &fakeBook{})

	b.handleCommand("/showconfig")

	reply := lastReply(t, api)
	if !strings.HasPrefix(reply.Text, "📌 Current Config:\n<pre>") {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
	for _, field := range []string{`"base_stake": 5`, `"odds_tolerance": 0.01`, `"allow_tennis": true`} {
		if !strings.Contains(reply.Text, field) {
			t.Errorf("reply misses %q: %q", field, reply.Text)
		}
	}
	if reply.ParseMode != tgbotapi.ModeHTML {
		t.Errorf("parse mode = %q, want HTML", reply.ParseMode)
	}
}

func TestStakeCommandPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := settings.Load(path)
	if err != nil {
		t.Fatalf("settings.Load() error: %v", err)
	}

	api := newFakeAPI()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	pl := pipeline.New(&fakeBook{}, store, nil, nil, log)
	b := New(api, config.TelegramConfig{ChannelID: testChannelID}, pl, store, nil, log)

	b.handleCommand("/stake 12.5")

	reloaded, err := settings.Load(path)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if got := reloaded.Get().BaseStake.String(); got != "12.5" {
		t.Errorf("persisted base stake = %s, want 12.5", got)
	}
}

func TestSportsCommandChangesParserBehavior(t *testing.T) {
	b, api := newTestBot(t, &fakeBook{})

	b.handleCommand("/sports football")
	b.handleMessage(context.Background(), &tgbotapi.Message{
		Text: testTip,
		Chat: &tgbotapi.Chat{ID: testChannelID},
	})
	b.notifier.Stop()

	var sawIgnored bool
	for _, msg := range api.messages() {
		if strings.Contains(msg.Text, "Tip Ignored") && strings.Contains(msg.Text, "sport not allowed") {
			sawIgnored = true
		}
	}
	if !sawIgnored {
		t.Error("a tennis tip must be ignored after /sports football")
	}
}
