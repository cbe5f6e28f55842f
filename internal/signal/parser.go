package signal

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pinwager/pinwager/internal/pkg/enums"
	"github.com/pinwager/pinwager/internal/pkg/models"
	"github.com/pinwager/pinwager/internal/pkg/settings"
)

// Tip grammar, in the order the rules run:
//
//	<home> vs <away>
//	<league title>                          (optional, next non-empty line)
//	<ML Match|HDP Match> : <selection> [<handicap>] @ <odds> (<units> U)
//	No bet under <threshold>                (optional, anywhere)
//
// plus a sport keyword ("Tennis", "Football", "Soccer") anywhere in the text.
// Decimal separators "." and "," are both accepted for odds and threshold.

const vsSeparator = " vs "

var (
	// H:MM or HH:MM token: the line after the teams is a start time, not a title
	clockRe = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)

	thresholdRe = regexp.MustCompile(`No bet under ([0-9.,]+)`)
)

// Parse converts one inbound message into a BetSignal, applying the risk
// controls from the current settings. The returned error is always a
// *models.Rejection; the first failing rule rejects the whole message.
func Parse(text string, cfg settings.Settings) (*models.BetSignal, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	sport, rej := detectSport(text, cfg)
	if rej != nil {
		return nil, rej
	}

	teamIdx, home, away, rej := findTeamLine(lines)
	if rej != nil {
		return nil, rej
	}

	title := extractTitle(lines, teamIdx)

	bet, rej := findBetLine(lines)
	if rej != nil {
		return nil, rej
	}

	stake := cfg.BaseStake.Mul(bet.units).Round(2)
	if stake.LessThan(cfg.MinStake) {
		return nil, models.Reject(models.ReasonStakeTooSmall, "stake %s is below minimum %s", stake, cfg.MinStake)
	}

	floor := decimal.Zero
	if threshold, ok := extractThreshold(text); ok {
		if bet.odds.Add(cfg.OddsTolerance).LessThan(threshold) {
			return nil, models.Reject(models.ReasonOddsBelowThreshold,
				"quoted odds %s with tolerance %s do not reach required %s", bet.odds, cfg.OddsTolerance, threshold)
		}
		floor = threshold.Sub(cfg.OddsTolerance)
		if floor.IsNegative() {
			floor = decimal.Zero
		}
	}

	side := enums.Away
	if foldName(bet.selection) == foldName(home) {
		side = enums.Home
	}

	return &models.BetSignal{
		RequestID:         uuid.NewString(),
		Sport:             sport,
		HomeTeam:          home,
		AwayTeam:          away,
		LeagueTitle:       title,
		MarketType:        bet.market,
		Selection:         bet.selection,
		SelectionSide:     side,
		Handicap:          bet.handicap,
		HasHandicap:       bet.hasHandicap,
		QuotedOdds:        bet.odds,
		StakeAmount:       stake,
		MinAcceptableOdds: floor,
		Status:            models.StatusParsed,
	}, nil
}

// Sport keywords, matched case-sensitively: tipsters write them capitalized,
// and lowercase fragments inside other words must not trigger ("attention").
// Tour markers count as tennis since many tennis tips never say "Tennis".
var (
	tennisKeywords   = []string{"Tennis", "ATP", "WTA"}
	footballKeywords = []string{"Football", "Soccer"}
)

// detectSport scans for a sport keyword anywhere in the text
func detectSport(text string, cfg settings.Settings) (enums.Sport, *models.Rejection) {
	var sport enums.Sport
	switch {
	case containsAny(text, tennisKeywords):
		sport = enums.Tennis
	case containsAny(text, footballKeywords):
		sport = enums.Football
	default:
		return "", models.Reject(models.ReasonSportNotAllowed, "no known sport keyword in message")
	}

	if !cfg.Allows(sport) {
		return "", models.Reject(models.ReasonSportNotAllowed, "betting on %s is disabled", sport.DisplayName())
	}
	return sport, nil
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// findTeamLine locates the first line containing " vs " and splits it at the
// last occurrence, so only absurd team names containing " vs " themselves
// would confuse it.
func findTeamLine(lines []string) (int, string, string, *models.Rejection) {
	for i, line := range lines {
		idx := strings.LastIndex(line, vsSeparator)
		if idx < 0 {
			continue
		}
		home := strings.TrimSpace(line[:idx])
		away := strings.TrimSpace(line[idx+len(vsSeparator):])
		if home == "" || away == "" {
			continue
		}
		return i, home, away, nil
	}
	return 0, "", "", models.Reject(models.ReasonNoMatchPattern, `no "<home> vs <away>" line in message`)
}

// extractTitle applies the league-title heuristic: the first non-empty line
// after the team line is the title, unless it carries a clock token, in which
// case the title stays unset. Later lines are never considered.
func extractTitle(lines []string, teamIdx int) string {
	for i := teamIdx + 1; i < len(lines); i++ {
		s := strings.TrimSpace(lines[i])
		if s == "" {
			continue
		}
		if clockRe.MatchString(s) {
			return ""
		}
		return s
	}
	return ""
}

type betLine struct {
	market      enums.MarketType
	selection   string
	handicap    decimal.Decimal
	hasHandicap bool
	odds        decimal.Decimal
	units       decimal.Decimal
}

// findBetLine scans for the first line matching the bet template. Lines that
// carry a market label but do not complete the template are skipped, except a
// spread line without a handicap token, which is a template violation.
func findBetLine(lines []string) (betLine, *models.Rejection) {
	for _, line := range lines {
		for _, label := range enums.MarketLabels() {
			marker := label + " : "
			idx := strings.Index(line, marker)
			if idx < 0 {
				continue
			}

			market, _ := enums.ParseMarketLabel(label)
			bet, ok, rej := parseBetBody(market, line[idx+len(marker):])
			if rej != nil {
				return betLine{}, rej
			}
			if ok {
				return bet, nil
			}
		}
	}
	return betLine{}, models.Reject(models.ReasonNoBetTemplate, "no bet line matching the template in message")
}

// parseBetBody tokenizes `<selection> [<handicap>] @ <odds> (<units> U)`.
func parseBetBody(market enums.MarketType, body string) (betLine, bool, *models.Rejection) {
	at := strings.LastIndex(body, " @ ")
	if at < 0 {
		return betLine{}, false, nil
	}
	selectionPart := strings.TrimSpace(body[:at])
	oddsPart := strings.TrimSpace(body[at+3:])
	if selectionPart == "" {
		return betLine{}, false, nil
	}

	odds, units, ok := parseOddsAndUnits(oddsPart)
	if !ok {
		return betLine{}, false, nil
	}

	bet := betLine{
		market:    market,
		selection: selectionPart,
		odds:      odds,
		units:     units,
	}

	if market == enums.Spread {
		fields := strings.Fields(selectionPart)
		if len(fields) >= 2 {
			if hdp, ok := parseSignedDecimal(fields[len(fields)-1]); ok {
				bet.handicap = hdp
				bet.hasHandicap = true
				bet.selection = strings.Join(fields[:len(fields)-1], " ")
			}
		}
		if !bet.hasHandicap {
			return betLine{}, false, models.Reject(models.ReasonNoBetTemplate, "spread bet line has no handicap token")
		}
	}

	return bet, true, nil
}

// parseOddsAndUnits tokenizes `<odds> (<units> U)`; the space before the
// parenthesis is optional.
func parseOddsAndUnits(s string) (odds, units decimal.Decimal, ok bool) {
	openIdx := strings.Index(s, "(")
	if openIdx < 0 {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}
	closeIdx := strings.Index(s[openIdx:], ")")
	if closeIdx < 0 {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}

	oddsTok := strings.TrimSpace(s[:openIdx])
	inner := s[openIdx+1 : openIdx+closeIdx]

	unitsTok, found := strings.CutSuffix(inner, " U")
	if !found {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}

	odds, okOdds := parseDecimalToken(oddsTok)
	units, okUnits := parseDecimalToken(strings.TrimSpace(unitsTok))
	if !okOdds || !okUnits {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}
	return odds, units, true
}

// parseDecimalToken parses an unsigned decimal allowing "," as the separator
func parseDecimalToken(tok string) (decimal.Decimal, bool) {
	if tok == "" {
		return decimal.Decimal{}, false
	}
	for _, r := range tok {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return decimal.Decimal{}, false
		}
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(tok, ",", "."))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseSignedDecimal parses a handicap token like "-1.5", "+0,25" or "2"
func parseSignedDecimal(tok string) (decimal.Decimal, bool) {
	body := tok
	neg := false
	switch {
	case strings.HasPrefix(tok, "-"):
		neg = true
		body = tok[1:]
	case strings.HasPrefix(tok, "+"):
		body = tok[1:]
	}
	d, ok := parseDecimalToken(body)
	if !ok {
		return decimal.Decimal{}, false
	}
	if neg {
		d = d.Neg()
	}
	return d, true
}

// extractThreshold finds the optional "No bet under <threshold>" clause
func extractThreshold(text string) (decimal.Decimal, bool) {
	m := thresholdRe.FindStringSubmatch(text)
	if m == nil {
		return decimal.Decimal{}, false
	}
	threshold, ok := parseDecimalToken(m[1])
	if !ok {
		return decimal.Decimal{}, false
	}
	return threshold, true
}

// foldName compares team names ignoring case and redundant whitespace
func foldName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
