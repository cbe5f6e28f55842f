package ps3838

import "time"

// Sportsbook wire statuses
const (
	EventStatusOpen = "O"

	LineStatusSuccess   = "SUCCESS"
	LineStatusNotExists = "NOT_EXISTS"

	PlaceStatusAccepted          = "ACCEPTED"
	PlaceStatusPendingAcceptance = "PENDING_ACCEPTANCE"
	PlaceStatusProcessedError    = "PROCESSED_WITH_ERROR"
)

// Bet request constants for straight bets on the full match
const (
	OddsFormatDecimal = "DECIMAL"
	WinRiskTypeRisk   = "RISK"
	FillTypeNormal    = "NORMAL"
	PeriodFullMatch   = 0
)

// FixturesResponse is the GET /v3/fixtures payload: the book's tree of
// upcoming events for one sport, grouped by league.
type FixturesResponse struct {
	SportID int64            `json:"sportId"`
	Last    int64            `json:"last"`
	Leagues []FixturesLeague `json:"league"`
}

// FixturesLeague groups the fixtures of one competition
type FixturesLeague struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name"`
	Events []FixtureEvent `json:"events"`
}

// FixtureEvent is one listed fixture. ParentID is zero on primary match
// events and non-zero on derivative entries grouped under a parent fixture.
type FixtureEvent struct {
	ID            int64     `json:"id"`
	ParentID      int64     `json:"parentId"`
	Starts        time.Time `json:"starts"`
	Home          string    `json:"home"`
	Away          string    `json:"away"`
	Status        string    `json:"status"`
	LiveStatus    int       `json:"liveStatus"`
	ResultingUnit string    `json:"resultingUnit"`
}

// IsOpen reports whether the fixture still accepts bets
func (e FixtureEvent) IsOpen() bool {
	return e.Status == EventStatusOpen
}

// LineRequest keys one GET /v2/line lookup. Handicap is nil on moneyline
// markets and must be set on spread markets.
type LineRequest struct {
	SportID      int64
	LeagueID     int64
	EventID      int64
	PeriodNumber int
	BetType      string
	Team         string
	Handicap     *float64
}

// LineResponse is the GET /v2/line payload for one straight-bet market
type LineResponse struct {
	Status        string  `json:"status"`
	Price         float64 `json:"price"`
	LineID        int64   `json:"lineId"`
	AltLineID     int64   `json:"altLineId"`
	MaxRiskStake  float64 `json:"maxRiskStake"`
	MinRiskStake  float64 `json:"minRiskStake"`
	EffectiveAsOf string  `json:"effectiveAsOf"`
}

// OK reports whether the book quoted a priced line
func (r LineResponse) OK() bool {
	return r.Status == LineStatusSuccess && r.Price > 0 && r.LineID != 0
}

// PlaceBetRequest is the POST /v2/bets/place body. UniqueRequestID makes the
// submission idempotent on the book side.
type PlaceBetRequest struct {
	OddsFormat       string   `json:"oddsFormat"`
	UniqueRequestID  string   `json:"uniqueRequestId"`
	AcceptBetterLine bool     `json:"acceptBetterLine"`
	Stake            float64  `json:"stake"`
	WinRiskStake     string   `json:"winRiskStake"`
	LineID           int64    `json:"lineId"`
	AltLineID        int64    `json:"altLineId,omitempty"`
	FillType         string   `json:"fillType"`
	SportID          int64    `json:"sportId"`
	EventID          int64    `json:"eventId"`
	PeriodNumber     int      `json:"periodNumber"`
	BetType          string   `json:"betType"`
	Team             string   `json:"team"`
	Handicap         *float64 `json:"handicap,omitempty"`
}

// PlaceBetResponse is the POST /v2/bets/place payload
type PlaceBetResponse struct {
	Status          string       `json:"status"`
	ErrorCode       string       `json:"errorCode"`
	UniqueRequestID string       `json:"uniqueRequestId"`
	StraightBet     *StraightBet `json:"straightBet"`
}

// Accepted reports whether the book took the bet or holds it for review
func (r PlaceBetResponse) Accepted() bool {
	return r.Status == PlaceStatusAccepted || r.Status == PlaceStatusPendingAcceptance
}

// StraightBet describes the booked bet returned on acceptance
type StraightBet struct {
	BetID          int64     `json:"betId"`
	WagerNumber    int       `json:"wagerNumber"`
	BetStatus      string    `json:"betStatus"`
	BetType        string    `json:"betType"`
	Price          float64   `json:"price"`
	Risk           float64   `json:"risk"`
	Win            float64   `json:"win"`
	SportName      string    `json:"sportName"`
	LeagueName     string    `json:"leagueName"`
	Team1          string    `json:"team1"`
	Team2          string    `json:"team2"`
	EventStartTime time.Time `json:"eventStartTime"`
}
