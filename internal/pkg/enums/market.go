package enums

// MarketType identifies the bet market extracted from a tip
type MarketType string

const (
	Moneyline MarketType = "moneyline"
	Spread    MarketType = "spread"
)

// Tip message labels for the supported markets
const (
	moneylineLabel = "ML Match"
	spreadLabel    = "HDP Match"
)

// BetType returns the PS3838 bet type parameter
func (m MarketType) BetType() string {
	switch m {
	case Moneyline:
		return "MONEYLINE"
	case Spread:
		return "SPREAD"
	default:
		return ""
	}
}

// DisplayName returns the human-readable market name
func (m MarketType) DisplayName() string {
	switch m {
	case Moneyline:
		return "Moneyline"
	case Spread:
		return "Spread"
	default:
		return "Unknown"
	}
}

// String returns string representation
func (m MarketType) String() string {
	return string(m)
}

// ParseMarketLabel maps a tip's market label to a MarketType
func ParseMarketLabel(label string) (MarketType, bool) {
	switch label {
	case moneylineLabel:
		return Moneyline, true
	case spreadLabel:
		return Spread, true
	default:
		return "", false
	}
}

// MarketLabels returns the labels a bet line may start with
func MarketLabels() []string {
	return []string{moneylineLabel, spreadLabel}
}

// TeamSide says which side of the fixture a selection refers to
type TeamSide string

const (
	Home TeamSide = "home"
	Away TeamSide = "away"
)

// TeamCode returns the PS3838 team designation
func (t TeamSide) TeamCode() string {
	switch t {
	case Home:
		return "TEAM1"
	case Away:
		return "TEAM2"
	default:
		return ""
	}
}

// String returns string representation
func (t TeamSide) String() string {
	return string(t)
}
