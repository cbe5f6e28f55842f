package pipeline

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pinwager/pinwager/internal/pkg/enums"
	"github.com/pinwager/pinwager/internal/pkg/models"
	"github.com/pinwager/pinwager/internal/ps3838"
)

// validateLine fetches the current line for the resolved signal and checks
// the live price against the signal's odds floor.
//
// The lookup is keyed by LineEventID: the book prices moneyline markets on
// the parent fixture when one exists, spread markets on the matched event
// itself. The floor was derived at parse time (threshold minus tolerance),
// so the comparison here is a plain >= against the live price.
func (p *Pipeline) validateLine(ctx context.Context, sig *models.BetSignal) error {
	req := ps3838.LineRequest{
		SportID:      sig.Sport.SportID(),
		LeagueID:     sig.LeagueID,
		EventID:      sig.LineEventID(),
		PeriodNumber: ps3838.PeriodFullMatch,
		BetType:      sig.MarketType.BetType(),
		Team:         sig.SelectionSide.TeamCode(),
	}
	if sig.MarketType == enums.Spread {
		handicap, _ := sig.Handicap.Float64()
		req.Handicap = &handicap
	}

	line, err := p.book.Line(ctx, req)
	if err != nil {
		return models.Reject(models.ReasonLineUnavailable, "line lookup failed: %v", err)
	}
	if !line.OK() {
		return models.Reject(models.ReasonLineUnavailable, "book returned status %q for %q", line.Status, sig.MatchName())
	}

	marketOdds := decimal.NewFromFloat(line.Price)
	if marketOdds.LessThan(sig.MinAcceptableOdds) {
		return models.Reject(models.ReasonOddsMoved, "line moved to %s, floor is %s", marketOdds, sig.MinAcceptableOdds)
	}

	sig.LineID = line.LineID
	sig.AltLineID = line.AltLineID
	sig.MarketOdds = marketOdds
	sig.Status = models.StatusLineValidated
	return nil
}
