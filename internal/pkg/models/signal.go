package models

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pinwager/pinwager/internal/pkg/enums"
)

// SignalStatus tracks a signal through the pipeline. Transitions only move
// forward; every rejected/failed status is terminal.
type SignalStatus string

const (
	StatusReceived      SignalStatus = "received"
	StatusParsed        SignalStatus = "parsed"
	StatusEventResolved SignalStatus = "event_resolved"
	StatusLineValidated SignalStatus = "line_validated"
	StatusPlaced        SignalStatus = "placed"

	StatusRejectedAtParse    SignalStatus = "rejected_at_parse"
	StatusRejectedAtResolve  SignalStatus = "rejected_at_resolve"
	StatusRejectedAtValidate SignalStatus = "rejected_at_validate"
	StatusPlacementFailed    SignalStatus = "placement_failed"
)

// RejectReason is the machine-readable cause of a dropped signal
type RejectReason string

const (
	ReasonSportNotAllowed    RejectReason = "sport_not_allowed"
	ReasonNoMatchPattern     RejectReason = "no_match_pattern"
	ReasonNoBetTemplate      RejectReason = "no_bet_template"
	ReasonStakeTooSmall      RejectReason = "stake_too_small"
	ReasonOddsBelowThreshold RejectReason = "odds_below_threshold"
	ReasonEventNotFound      RejectReason = "event_not_found"
	ReasonLineUnavailable    RejectReason = "line_unavailable"
	ReasonOddsMoved          RejectReason = "odds_moved"
)

// Rejection is a terminal per-signal failure. It implements error so stages
// can return it through normal error paths while callers keep the reason
// machine-distinguishable via errors.As.
type Rejection struct {
	Reason RejectReason
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return string(r.Reason)
	}
	return fmt.Sprintf("%s: %s", r.Reason, r.Detail)
}

// Reject builds a Rejection with a formatted detail message
func Reject(reason RejectReason, format string, args ...any) *Rejection {
	return &Rejection{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// BetSignal is the parsed intent of one tip message. Created once per
// successfully parsed message; later pipeline stages append their fields in
// place. RequestID is generated at creation and never regenerated — it is the
// idempotency key for the placement call.
type BetSignal struct {
	RequestID   string      `json:"request_id"`
	Sport       enums.Sport `json:"sport"`
	HomeTeam    string      `json:"home_team"`
	AwayTeam    string      `json:"away_team"`
	LeagueTitle string      `json:"league_title"` // "" when the tip carried no usable title line

	MarketType    enums.MarketType `json:"market_type"`
	Selection     string           `json:"selection"`
	SelectionSide enums.TeamSide   `json:"selection_side"`
	Handicap      decimal.Decimal  `json:"handicap"`
	HasHandicap   bool             `json:"has_handicap"`

	QuotedOdds  decimal.Decimal `json:"quoted_odds"`
	StakeAmount decimal.Decimal `json:"stake_amount"`
	// Effective odds floor: the tip's "No bet under" threshold with the
	// configured tolerance already subtracted. Zero when no threshold.
	MinAcceptableOdds decimal.Decimal `json:"min_acceptable_odds"`

	// Filled by EventResolver
	EventID       int64 `json:"event_id"`
	LeagueID      int64 `json:"league_id"`
	ParentEventID int64 `json:"parent_event_id"` // 0 when the matched event is top-level

	// Filled by LineValidator
	LineID     int64           `json:"line_id"`
	AltLineID  int64           `json:"alt_line_id"` // 0 for moneyline
	MarketOdds decimal.Decimal `json:"market_odds"`

	Status SignalStatus `json:"status"`
}

// LineEventID returns the event id to use for line lookup and placement.
// The book groups moneyline pricing under the parent fixture when one
// exists; spread pricing belongs to the matched event itself.
func (s *BetSignal) LineEventID() int64 {
	if s.MarketType == enums.Moneyline && s.ParentEventID != 0 {
		return s.ParentEventID
	}
	return s.EventID
}

// MatchName returns "home vs away" for logs and notifications
func (s *BetSignal) MatchName() string {
	return s.HomeTeam + " vs " + s.AwayTeam
}
