package bot

import (
	"encoding/json"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/pinwager/pinwager/internal/pkg/settings"
)

const helpText = "📖 *Available Commands:*\n\n" +
	"/help → Show this help message\n" +
	"/stake <value> → Set base stake (minimum 5 EUR)\n" +
	"/sports <tennis|football|both> → Enable betting on sports\n" +
	"/odds <tolerance> → Set odds tolerance (e.g. 0.05)\n" +
	"/showconfig → Show current configuration\n"

// command is one operator command: its usage line, required argument count,
// the parse mode of its reply and the handler producing the reply text.
type command struct {
	usage     string
	args      int
	parseMode string
	run       func(b *Bot, args []string) string
}

func commandTable() map[string]command {
	return map[string]command{
		"/start":      {usage: "/start", parseMode: tgbotapi.ModeMarkdown, run: (*Bot).helpCommand},
		"/help":       {usage: "/help", parseMode: tgbotapi.ModeMarkdown, run: (*Bot).helpCommand},
		"/stake":      {usage: "/stake <amount>", args: 1, run: (*Bot).stakeCommand},
		"/sports":     {usage: "/sports tennis | football | both", args: 1, run: (*Bot).sportsCommand},
		"/odds":       {usage: "/odds <tolerance>", args: 1, run: (*Bot).oddsCommand},
		"/showconfig": {usage: "/showconfig", parseMode: tgbotapi.ModeHTML, run: (*Bot).showConfigCommand},
	}
}

func (b *Bot) helpCommand([]string) string {
	return helpText
}

func (b *Bot) stakeCommand(args []string) string {
	stake, err := parseAmount(args[0])
	if err != nil {
		return "⚠️ Invalid stake amount."
	}

	cfg := b.settings.Get()
	if stake.LessThan(cfg.MinStake) {
		return fmt.Sprintf("⚠️ Minimum stake is %s EUR.", cfg.MinStake)
	}

	if _, err := b.settings.Update(func(s *settings.Settings) {
		s.BaseStake = stake
	}); err != nil {
		b.log.Error("failed to update base stake", "error", err)
		return "⚠️ Failed to save settings."
	}
	return fmt.Sprintf("✅ Base stake updated to €%s", stake)
}

func (b *Bot) sportsCommand(args []string) string {
	var tennis, football bool
	switch strings.ToLower(args[0]) {
	case "tennis":
		tennis, football = true, false
	case "football":
		tennis, football = false, true
	case "both":
		tennis, football = true, true
	default:
		return "⚠️ Use: /sports tennis | football | both"
	}

	updated, err := b.settings.Update(func(s *settings.Settings) {
		s.AllowTennis = tennis
		s.AllowFootball = football
	})
	if err != nil {
		b.log.Error("failed to update sports", "error", err)
		return "⚠️ Failed to save settings."
	}
	return fmt.Sprintf("✅ Sports updated: Tennis=%t Football=%t", updated.AllowTennis, updated.AllowFootball)
}

func (b *Bot) oddsCommand(args []string) string {
	tolerance, err := parseAmount(args[0])
	if err != nil {
		return "⚠️ Invalid number."
	}

	if _, err := b.settings.Update(func(s *settings.Settings) {
		s.OddsTolerance = tolerance
	}); err != nil {
		return "⚠️ Invalid number."
	}
	return fmt.Sprintf("✅ Odds tolerance updated to %s", tolerance)
}

func (b *Bot) showConfigCommand([]string) string {
	cfg := b.settings.Get()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		b.log.Error("failed to render settings", "error", err)
		return "⚠️ Failed to read settings."
	}
	return fmt.Sprintf("📌 Current Config:\n<pre>%s</pre>", data)
}

func parseAmount(token string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(token, ",", "."))
}
