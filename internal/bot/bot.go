package bot

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pinwager/pinwager/internal/pipeline"
	"github.com/pinwager/pinwager/internal/pkg/config"
	"github.com/pinwager/pinwager/internal/pkg/settings"
)

// API is the slice of the Telegram client the bot uses. *tgbotapi.BotAPI
// satisfies it; tests substitute a recording fake.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

var _ API = (*tgbotapi.BotAPI)(nil)

// Bot runs the operator channel loop. Slash commands go through the command
// table and reply synchronously; everything else is treated as a tip and runs
// through the pipeline, one message at a time in arrival order.
type Bot struct {
	api           API
	channelID     int64
	updateTimeout int
	pipeline      *pipeline.Pipeline
	settings      *settings.Store
	notifier      *Notifier
	commands      map[string]command
	log           *slog.Logger
}

// New wires the bot against an authorized Telegram client
func New(api API, cfg config.TelegramConfig, pl *pipeline.Pipeline, store *settings.Store, notifier *Notifier, log *slog.Logger) *Bot {
	return &Bot{
		api:           api,
		channelID:     cfg.ChannelID,
		updateTimeout: cfg.UpdateTimeout,
		pipeline:      pl,
		settings:      store,
		notifier:      notifier,
		commands:      commandTable(),
		log:           log,
	}
}

// Run consumes updates until the context is cancelled. The help message is
// posted to the channel on startup so operators see the command set.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.updateTimeout
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("bot started, waiting for messages", "channel_id", b.channelID)
	b.notifier.Queue(helpText)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			message := update.Message
			if message == nil {
				message = update.ChannelPost
			}
			if message == nil {
				continue
			}
			b.handleMessage(ctx, message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Chat == nil || message.Chat.ID != b.channelID {
		return
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}

	if strings.HasPrefix(text, "/") {
		b.handleCommand(text)
		return
	}

	b.api.Send(tgbotapi.NewChatAction(b.channelID, tgbotapi.ChatTyping))

	outcome := b.pipeline.Process(ctx, text)
	b.notifier.Queue(FormatOutcome(outcome))
}

func (b *Bot) handleCommand(text string) {
	parts := strings.Fields(text)
	name := strings.ToLower(parts[0])
	// Group chats address commands as /cmd@botname
	if at := strings.Index(name, "@"); at > 0 {
		name = name[:at]
	}

	cmd, ok := b.commands[name]
	if !ok {
		b.reply("Unknown command. Use /help to see available commands.", "")
		return
	}

	args := parts[1:]
	if len(args) < cmd.args {
		b.reply("⚠️ Use: "+cmd.usage, "")
		return
	}

	b.reply(cmd.run(b, args), cmd.parseMode)
}

func (b *Bot) reply(text, parseMode string) {
	msg := tgbotapi.NewMessage(b.channelID, text)
	msg.ParseMode = parseMode
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send reply", "error", err)
	}
}
