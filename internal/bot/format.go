package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pinwager/pinwager/internal/pipeline"
	"github.com/pinwager/pinwager/internal/pkg/models"
)

// FormatOutcome renders one pipeline outcome as the operator notification.
// Every processed tip produces exactly one of these.
func FormatOutcome(o *pipeline.Outcome) string {
	switch o.Status {
	case models.StatusPlaced:
		return formatPlaced(o)
	case models.StatusPlacementFailed:
		return formatPlacementFailed(o)
	default:
		return formatDropped(o)
	}
}

// formatPlaced surfaces the book's own bet details, not the tip's
func formatPlaced(o *pipeline.Outcome) string {
	result := o.Placement
	var builder strings.Builder

	builder.WriteString("✅ *Bet Placed*\n\n")
	builder.WriteString(fmt.Sprintf("*%s vs %s*\n", escapeMarkdown(result.Team1), escapeMarkdown(result.Team2)))
	if result.SportName != "" || result.LeagueName != "" {
		builder.WriteString(fmt.Sprintf("🏆 %s | %s\n", result.SportName, escapeMarkdown(result.LeagueName)))
	}
	builder.WriteString(fmt.Sprintf("🎯 %s: %s\n", o.Signal.MarketType.DisplayName(), escapeMarkdown(selectionLabel(o.Signal))))
	builder.WriteString(fmt.Sprintf("💰 Stake: €%s @ %s\n", result.FinalStake, result.FinalOdds))
	builder.WriteString(fmt.Sprintf("📈 Potential win: €%s\n", result.PotentialWin))
	builder.WriteString(fmt.Sprintf("🧾 Bet ID: %d (%s)\n", result.BetID, result.BetStatus))
	if !result.EventStart.IsZero() {
		builder.WriteString(fmt.Sprintf("🕐 Start: %s\n", formatTime(result.EventStart)))
	}
	return builder.String()
}

func formatPlacementFailed(o *pipeline.Outcome) string {
	result := o.Placement
	var builder strings.Builder

	builder.WriteString("❌ *Bet Not Accepted*\n\n")
	builder.WriteString(fmt.Sprintf("*%s*\n", escapeMarkdown(o.Signal.MatchName())))
	builder.WriteString(fmt.Sprintf("🎯 %s: %s\n", o.Signal.MarketType.DisplayName(), escapeMarkdown(selectionLabel(o.Signal))))
	builder.WriteString(fmt.Sprintf("Status: %s\n", result.Status))
	if result.ErrorCode != "" {
		builder.WriteString(fmt.Sprintf("Error: %s\n", escapeMarkdown(result.ErrorCode)))
	}
	builder.WriteString("Resubmit the tip to retry.\n")
	return builder.String()
}

func formatDropped(o *pipeline.Outcome) string {
	var builder strings.Builder

	builder.WriteString("⚠️ *Tip Ignored*\n\n")
	if o.Signal != nil {
		builder.WriteString(fmt.Sprintf("*%s*\n", escapeMarkdown(o.Signal.MatchName())))
	}
	builder.WriteString(fmt.Sprintf("Reason: %s\n", reasonText(o.Rejection.Reason)))
	if o.Rejection.Detail != "" {
		builder.WriteString(escapeMarkdown(o.Rejection.Detail) + "\n")
	}
	return builder.String()
}

func selectionLabel(sig *models.BetSignal) string {
	if sig.HasHandicap {
		return sig.Selection + " " + formatHandicap(sig.Handicap)
	}
	return sig.Selection
}

func formatHandicap(h decimal.Decimal) string {
	if h.IsNegative() {
		return h.String()
	}
	return "+" + h.String()
}

func reasonText(reason models.RejectReason) string {
	switch reason {
	case models.ReasonSportNotAllowed:
		return "sport not allowed"
	case models.ReasonNoMatchPattern:
		return "no match pattern"
	case models.ReasonNoBetTemplate:
		return "no bet template"
	case models.ReasonStakeTooSmall:
		return "stake too small"
	case models.ReasonOddsBelowThreshold:
		return "odds below threshold"
	case models.ReasonEventNotFound:
		return "event not found"
	case models.ReasonLineUnavailable:
		return "line unavailable"
	case models.ReasonOddsMoved:
		return "odds moved"
	default:
		return string(reason)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02 15:04 UTC")
}

// escapeMarkdown escapes the characters Telegram's legacy Markdown mode
// treats specially in free-text fields like team and league names.
func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"`", "\\`",
		"[", "\\[",
	)
	return replacer.Replace(text)
}
