package pipeline

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pinwager/pinwager/internal/pkg/enums"
	"github.com/pinwager/pinwager/internal/pkg/models"
	"github.com/pinwager/pinwager/internal/ps3838"
)

// statusRequestFailed marks a placement that never reached the book
const statusRequestFailed = "REQUEST_FAILED"

// placeBet submits the validated signal as a straight bet and always returns
// a result, accepted or not. The request id generated at parse time is the
// book-side idempotency token, so resubmitting the same request cannot
// double-book. The bet risks the stake amount and accepts a better line if
// the price improved since validation. There is no retry here: a failed
// attempt is reported to the operator, who may resubmit a fresh tip.
func (p *Pipeline) placeBet(ctx context.Context, sig *models.BetSignal) *models.PlacementResult {
	stake, _ := sig.StakeAmount.Float64()

	req := &ps3838.PlaceBetRequest{
		OddsFormat:       ps3838.OddsFormatDecimal,
		UniqueRequestID:  sig.RequestID,
		AcceptBetterLine: true,
		Stake:            stake,
		WinRiskStake:     ps3838.WinRiskTypeRisk,
		LineID:           sig.LineID,
		FillType:         ps3838.FillTypeNormal,
		SportID:          sig.Sport.SportID(),
		EventID:          sig.LineEventID(),
		PeriodNumber:     ps3838.PeriodFullMatch,
		BetType:          sig.MarketType.BetType(),
		Team:             sig.SelectionSide.TeamCode(),
	}
	if sig.MarketType == enums.Spread {
		handicap, _ := sig.Handicap.Float64()
		req.Handicap = &handicap
		req.AltLineID = sig.AltLineID
	}

	resp, err := p.book.PlaceBet(ctx, req)
	if err != nil {
		return &models.PlacementResult{
			Accepted:  false,
			Status:    statusRequestFailed,
			ErrorCode: err.Error(),
		}
	}

	result := &models.PlacementResult{
		Accepted:  resp.Accepted(),
		Status:    resp.Status,
		ErrorCode: resp.ErrorCode,
	}
	if bet := resp.StraightBet; bet != nil {
		result.BetID = bet.BetID
		result.FinalOdds = decimal.NewFromFloat(bet.Price)
		result.FinalStake = decimal.NewFromFloat(bet.Risk)
		result.PotentialWin = decimal.NewFromFloat(bet.Win)
		result.BetStatus = bet.BetStatus
		result.SportName = bet.SportName
		result.LeagueName = bet.LeagueName
		result.Team1 = bet.Team1
		result.Team2 = bet.Team2
		result.EventStart = bet.EventStartTime
	}
	return result
}
