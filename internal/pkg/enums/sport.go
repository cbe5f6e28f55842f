package enums

// Sport represents sports the bot is allowed to bet on
type Sport string

const (
	Tennis   Sport = "tennis"
	Football Sport = "football"
)

// PS3838 numeric sport identifiers (tennis=33, soccer=29)
const (
	tennisSportID   int64 = 33
	footballSportID int64 = 29
)

// SportID returns the PS3838 sport identifier
func (s Sport) SportID() int64 {
	switch s {
	case Tennis:
		return tennisSportID
	case Football:
		return footballSportID
	default:
		return 0
	}
}

// DisplayName returns the human-readable sport name
func (s Sport) DisplayName() string {
	switch s {
	case Tennis:
		return "Tennis"
	case Football:
		return "Football"
	default:
		return "Unknown"
	}
}

// IsValid checks if sport is supported
func (s Sport) IsValid() bool {
	switch s {
	case Tennis, Football:
		return true
	default:
		return false
	}
}

// String returns string representation
func (s Sport) String() string {
	return string(s)
}

// GetAllSports returns all supported sports
func GetAllSports() []Sport {
	return []Sport{
		Tennis,
		Football,
	}
}

// ParseSport parses string to Sport enum
func ParseSport(s string) (Sport, bool) {
	sport := Sport(s)
	return sport, sport.IsValid()
}
