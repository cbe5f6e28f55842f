package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlacementResult is the terminal outcome of a placement attempt. Produced
// once per signal, never retried automatically.
type PlacementResult struct {
	Accepted  bool   `json:"accepted"`
	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`

	// Bet detail as confirmed by the book (zero values when not accepted)
	BetID        int64           `json:"bet_id"`
	FinalOdds    decimal.Decimal `json:"final_odds"`
	FinalStake   decimal.Decimal `json:"final_stake"`
	PotentialWin decimal.Decimal `json:"potential_win"`
	BetStatus    string          `json:"bet_status"`

	SportName  string    `json:"sport_name"`
	LeagueName string    `json:"league_name"`
	Team1      string    `json:"team1"`
	Team2      string    `json:"team2"`
	EventStart time.Time `json:"event_start"`
}
