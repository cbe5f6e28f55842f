package signal

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pinwager/pinwager/internal/pkg/enums"
	"github.com/pinwager/pinwager/internal/pkg/models"
	"github.com/pinwager/pinwager/internal/pkg/settings"
)

func testSettings() settings.Settings {
	return settings.Settings{
		BaseStake:     decimal.NewFromInt(5),
		MinStake:      decimal.NewFromInt(5),
		OddsTolerance: decimal.NewFromFloat(0.01),
		AllowTennis:   true,
		AllowFootball: true,
	}
}

func rejectionReason(t *testing.T, err error) models.RejectReason {
	t.Helper()
	var rej *models.Rejection
	if !errors.As(err, &rej) {
		t.Fatalf("error %v is not a *models.Rejection", err)
	}
	return rej.Reason
}

const moneylineTip = "Roger Federer vs Rafael Nadal\nATP Masters\nML Match : Roger Federer @ 1.85 (2 U)"

func TestParseMoneylineTip(t *testing.T) {
	sig, err := Parse(moneylineTip, testSettings())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if sig.Sport != enums.Tennis {
		t.Errorf("Sport = %s, want tennis", sig.Sport)
	}
	if sig.HomeTeam != "Roger Federer" || sig.AwayTeam != "Rafael Nadal" {
		t.Errorf("teams = %q / %q", sig.HomeTeam, sig.AwayTeam)
	}
	if sig.LeagueTitle != "ATP Masters" {
		t.Errorf("LeagueTitle = %q, want %q", sig.LeagueTitle, "ATP Masters")
	}
	if sig.MarketType != enums.Moneyline {
		t.Errorf("MarketType = %s, want moneyline", sig.MarketType)
	}
	if sig.Selection != "Roger Federer" {
		t.Errorf("Selection = %q", sig.Selection)
	}
	if sig.SelectionSide != enums.Home {
		t.Errorf("SelectionSide = %s, want home", sig.SelectionSide)
	}
	if sig.HasHandicap {
		t.Error("moneyline signal must not carry a handicap")
	}
	if !sig.QuotedOdds.Equal(decimal.NewFromFloat(1.85)) {
		t.Errorf("QuotedOdds = %s, want 1.85", sig.QuotedOdds)
	}
	if !sig.StakeAmount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("StakeAmount = %s, want 10", sig.StakeAmount)
	}
	if !sig.MinAcceptableOdds.IsZero() {
		t.Errorf("MinAcceptableOdds = %s, want 0 without threshold clause", sig.MinAcceptableOdds)
	}
	if sig.RequestID == "" {
		t.Error("RequestID must be generated")
	}
	if sig.Status != models.StatusParsed {
		t.Errorf("Status = %s, want parsed", sig.Status)
	}
}

func TestParseSpreadTip(t *testing.T) {
	text := "Football\nArsenal vs Chelsea\nPremier League\nHDP Match : Arsenal -0.5 @ 2.05 (1.5 U)\nNo bet under 2.0"

	sig, err := Parse(text, testSettings())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if sig.Sport != enums.Football {
		t.Errorf("Sport = %s, want football", sig.Sport)
	}
	if sig.LeagueTitle != "Premier League" {
		t.Errorf("LeagueTitle = %q", sig.LeagueTitle)
	}
	if sig.MarketType != enums.Spread {
		t.Errorf("MarketType = %s, want spread", sig.MarketType)
	}
	if sig.Selection != "Arsenal" {
		t.Errorf("Selection = %q, want Arsenal without the handicap token", sig.Selection)
	}
	if !sig.HasHandicap || !sig.Handicap.Equal(decimal.NewFromFloat(-0.5)) {
		t.Errorf("Handicap = %s (has=%v), want -0.5", sig.Handicap, sig.HasHandicap)
	}
	if !sig.StakeAmount.Equal(decimal.NewFromFloat(7.5)) {
		t.Errorf("StakeAmount = %s, want 7.5", sig.StakeAmount)
	}
	// threshold 2.0 with tolerance 0.01 leaves a floor of 1.99
	if !sig.MinAcceptableOdds.Equal(decimal.NewFromFloat(1.99)) {
		t.Errorf("MinAcceptableOdds = %s, want 1.99", sig.MinAcceptableOdds)
	}
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		name string
		text string
		cfg  func(*settings.Settings)
		want models.RejectReason
	}{
		{
			name: "no sport keyword",
			text: "A vs B\nML Match : A @ 1.85 (2 U)",
			want: models.ReasonSportNotAllowed,
		},
		{
			name: "lowercase sport keyword does not match",
			text: "tennis\nFederer vs Nadal\nML Match : Federer @ 1.85 (2 U)",
			want: models.ReasonSportNotAllowed,
		},
		{
			name: "tennis disabled",
			text: moneylineTip,
			cfg:  func(s *settings.Settings) { s.AllowTennis = false },
			want: models.ReasonSportNotAllowed,
		},
		{
			name: "football disabled",
			text: "Football\nArsenal vs Chelsea\nML Match : Arsenal @ 1.85 (2 U)",
			cfg:  func(s *settings.Settings) { s.AllowFootball = false },
			want: models.ReasonSportNotAllowed,
		},
		{
			name: "no vs line",
			text: "Tennis\nFederer against Nadal\nML Match : Federer @ 1.85 (2 U)",
			want: models.ReasonNoMatchPattern,
		},
		{
			name: "no bet line",
			text: "Tennis\nFederer vs Nadal\nATP Masters",
			want: models.ReasonNoBetTemplate,
		},
		{
			name: "bet line without odds marker",
			text: "Tennis\nFederer vs Nadal\nML Match : Federer 1.85 (2 U)",
			want: models.ReasonNoBetTemplate,
		},
		{
			name: "spread line without handicap",
			text: "Tennis\nFederer vs Nadal\nHDP Match : Federer @ 1.85 (2 U)",
			want: models.ReasonNoBetTemplate,
		},
		{
			name: "stake below minimum",
			text: "Tennis\nFederer vs Nadal\nML Match : Federer @ 1.85 (0.5 U)",
			want: models.ReasonStakeTooSmall,
		},
		{
			name: "quoted odds below threshold",
			text: "Tennis\nFederer vs Nadal\nML Match : Federer @ 1.85 (2 U)\nNo bet under 1.90",
			want: models.ReasonOddsBelowThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testSettings()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}

			sig, err := Parse(tt.text, cfg)
			if err == nil {
				t.Fatalf("Parse() = %+v, want rejection %s", sig, tt.want)
			}
			if got := rejectionReason(t, err); got != tt.want {
				t.Errorf("reason = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOddsToleranceBoundary(t *testing.T) {
	// quotedOdds + tolerance == threshold is accepted (inclusive boundary)
	tests := []struct {
		name   string
		quoted string
		accept bool
	}{
		{"exactly at boundary", "1.85", true},
		{"just below boundary", "1.84", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testSettings()
			cfg.OddsTolerance = decimal.NewFromFloat(0.05)

			text := "Tennis\nFederer vs Nadal\nML Match : Federer @ " + tt.quoted + " (2 U)\nNo bet under 1.90"
			sig, err := Parse(text, cfg)

			if tt.accept {
				if err != nil {
					t.Fatalf("Parse() error = %v, want accepted", err)
				}
				// floor carries the threshold minus tolerance
				if !sig.MinAcceptableOdds.Equal(decimal.NewFromFloat(1.85)) {
					t.Errorf("MinAcceptableOdds = %s, want 1.85", sig.MinAcceptableOdds)
				}
			} else {
				if err == nil {
					t.Fatal("Parse() accepted odds below threshold")
				}
				if got := rejectionReason(t, err); got != models.ReasonOddsBelowThreshold {
					t.Errorf("reason = %s, want odds_below_threshold", got)
				}
			}
		})
	}
}

func TestThresholdFloorClampedAtZero(t *testing.T) {
	cfg := testSettings()
	cfg.OddsTolerance = decimal.NewFromFloat(2.0)

	text := "Tennis\nFederer vs Nadal\nML Match : Federer @ 1.85 (2 U)\nNo bet under 1.50"
	sig, err := Parse(text, cfg)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !sig.MinAcceptableOdds.IsZero() {
		t.Errorf("MinAcceptableOdds = %s, want 0 when tolerance exceeds the threshold", sig.MinAcceptableOdds)
	}
}

func TestTitleHeuristic(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "line after teams is the title",
			text: "Tennis\nFederer vs Nadal\nATP Masters\nML Match : Federer @ 1.85 (2 U)",
			want: "ATP Masters",
		},
		{
			name: "empty lines are skipped",
			text: "Tennis\nFederer vs Nadal\n\n\nATP Masters\nML Match : Federer @ 1.85 (2 U)",
			want: "ATP Masters",
		},
		{
			name: "clock line leaves the title unset",
			text: "Tennis\nFederer vs Nadal\n14:30\nATP Masters\nML Match : Federer @ 1.85 (2 U)",
			want: "",
		},
		{
			name: "clock token inside the line also counts",
			text: "Tennis\nFederer vs Nadal\nStarts 9:05 CET\nML Match : Federer @ 1.85 (2 U)",
			want: "",
		},
		{
			name: "without a title line the heuristic grabs the bet line",
			text: "Tennis\nFederer vs Nadal\nML Match : Federer @ 1.85 (2 U)",
			want: "ML Match : Federer @ 1.85 (2 U)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := Parse(tt.text, testSettings())
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if sig.LeagueTitle != tt.want {
				t.Errorf("LeagueTitle = %q, want %q", sig.LeagueTitle, tt.want)
			}
		})
	}
}

func TestStakeRounding(t *testing.T) {
	text := "Tennis\nFederer vs Nadal\nATP Masters\nML Match : Federer @ 1.85 (1.333 U)"

	sig, err := Parse(text, testSettings())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	// 5 * 1.333 = 6.665, rounded to 6.67
	if !sig.StakeAmount.Equal(decimal.NewFromFloat(6.67)) {
		t.Errorf("StakeAmount = %s, want 6.67", sig.StakeAmount)
	}
}

func TestCommaDecimalSeparators(t *testing.T) {
	text := "Tennis\nFederer vs Nadal\nATP Masters\nML Match : Federer @ 1,85 (2 U)\nNo bet under 1,80"

	sig, err := Parse(text, testSettings())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !sig.QuotedOdds.Equal(decimal.NewFromFloat(1.85)) {
		t.Errorf("QuotedOdds = %s, want 1.85", sig.QuotedOdds)
	}
	if !sig.MinAcceptableOdds.Equal(decimal.NewFromFloat(1.79)) {
		t.Errorf("MinAcceptableOdds = %s, want 1.79", sig.MinAcceptableOdds)
	}
}

func TestOptionalSpaceBeforeUnits(t *testing.T) {
	text := "Tennis\nFederer vs Nadal\nATP Masters\nML Match : Federer @ 1.85(2 U)"

	sig, err := Parse(text, testSettings())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !sig.StakeAmount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("StakeAmount = %s, want 10", sig.StakeAmount)
	}
}

func TestSelectionSide(t *testing.T) {
	tests := []struct {
		name      string
		selection string
		want      enums.TeamSide
	}{
		{"selection equals home team", "Roger Federer", enums.Home},
		{"case and spacing are ignored", "  roger   FEDERER ", enums.Home},
		{"selection equals away team", "Rafael Nadal", enums.Away},
		{"anything else counts as away", "Somebody Else", enums.Away},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "Tennis\nRoger Federer vs Rafael Nadal\nATP Masters\nML Match : " + tt.selection + " @ 1.85 (2 U)"
			sig, err := Parse(text, testSettings())
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if sig.SelectionSide != tt.want {
				t.Errorf("SelectionSide = %s, want %s", sig.SelectionSide, tt.want)
			}
		})
	}
}

func TestRequestIDsAreIndependent(t *testing.T) {
	first, err := Parse(moneylineTip, testSettings())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	second, err := Parse(moneylineTip, testSettings())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if first.RequestID == second.RequestID {
		t.Error("two identical messages must get distinct request ids")
	}
}

func TestPositiveHandicapWithPlusSign(t *testing.T) {
	text := "Football\nArsenal vs Chelsea\nPremier League\nHDP Match : Chelsea +1,5 @ 1.95 (2 U)"

	sig, err := Parse(text, testSettings())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !sig.Handicap.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("Handicap = %s, want 1.5", sig.Handicap)
	}
	if sig.Selection != "Chelsea" {
		t.Errorf("Selection = %q, want Chelsea", sig.Selection)
	}
	if sig.SelectionSide != enums.Away {
		t.Errorf("SelectionSide = %s, want away", sig.SelectionSide)
	}
}
