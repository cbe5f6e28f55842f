package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pinwager/pinwager/internal/pkg/metrics"
	"github.com/pinwager/pinwager/internal/pkg/models"
	"github.com/pinwager/pinwager/internal/pkg/settings"
	"github.com/pinwager/pinwager/internal/pkg/storage"
	"github.com/pinwager/pinwager/internal/ps3838"
	"github.com/pinwager/pinwager/internal/signal"
)

// Sportsbook is the slice of the PS3838 API the pipeline uses. The real
// client satisfies it; tests substitute canned responses.
type Sportsbook interface {
	Fixtures(ctx context.Context, sportID int64) (*ps3838.FixturesResponse, error)
	Line(ctx context.Context, req ps3838.LineRequest) (*ps3838.LineResponse, error)
	PlaceBet(ctx context.Context, req *ps3838.PlaceBetRequest) (*ps3838.PlaceBetResponse, error)
}

var _ Sportsbook = (*ps3838.Client)(nil)

// Pipeline runs tip messages through parse, resolve, validate and place.
// Processing is strictly sequential: one message runs to its terminal state
// before the next one starts, so stages share no locks.
type Pipeline struct {
	book     Sportsbook
	settings *settings.Store
	journal  storage.Journal
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// New wires the pipeline dependencies
func New(book Sportsbook, store *settings.Store, journal storage.Journal, m *metrics.Metrics, log *slog.Logger) *Pipeline {
	if journal == nil {
		journal = storage.NopJournal{}
	}
	return &Pipeline{
		book:     book,
		settings: store,
		journal:  journal,
		metrics:  m,
		log:      log,
	}
}

// Outcome is the terminal result of one processed tip message. Exactly one
// outcome is produced per message; the bot turns it into one notification.
type Outcome struct {
	Status    models.SignalStatus
	Signal    *models.BetSignal       // nil when parsing rejected the raw text
	Rejection *models.Rejection       // set when a stage dropped the signal
	Placement *models.PlacementResult // set once a placement was attempted
}

// Placed reports whether the book accepted the bet
func (o *Outcome) Placed() bool {
	return o.Status == models.StatusPlaced
}

// Process runs one tip message to its terminal state. Stage failures are
// terminal and never re-enter an earlier stage; transport errors fail the
// stage they happened in.
func (p *Pipeline) Process(ctx context.Context, text string) *Outcome {
	cfg := p.settings.Get()

	sig, err := signal.Parse(text, cfg)
	if err != nil {
		return p.dropped(models.StatusRejectedAtParse, nil, err)
	}
	p.log.Info("tip parsed",
		"request_id", sig.RequestID,
		"sport", sig.Sport,
		"match", sig.MatchName(),
		"market", sig.MarketType,
		"selection", sig.Selection,
		"odds", sig.QuotedOdds,
		"stake", sig.StakeAmount,
	)

	if err := p.resolveEvent(ctx, sig); err != nil {
		return p.dropped(models.StatusRejectedAtResolve, sig, err)
	}
	p.log.Info("event resolved",
		"request_id", sig.RequestID,
		"league_id", sig.LeagueID,
		"event_id", sig.EventID,
		"parent_event_id", sig.ParentEventID,
	)

	if err := p.validateLine(ctx, sig); err != nil {
		return p.dropped(models.StatusRejectedAtValidate, sig, err)
	}
	p.log.Info("line validated",
		"request_id", sig.RequestID,
		"line_id", sig.LineID,
		"market_odds", sig.MarketOdds,
	)

	result := p.placeBet(ctx, sig)

	status := models.StatusPlaced
	if !result.Accepted {
		status = models.StatusPlacementFailed
	}
	sig.Status = status

	if err := p.journal.RecordPlacement(ctx, sig, result); err != nil {
		p.log.Warn("journal write failed", "request_id", sig.RequestID, "error", err)
	}
	p.metrics.RecordOutcome(string(status))
	p.metrics.RecordPlacement(result.Status)

	if result.Accepted {
		p.log.Info("bet placed",
			"request_id", sig.RequestID,
			"bet_id", result.BetID,
			"price", result.FinalOdds,
			"stake", result.FinalStake,
		)
	} else {
		p.log.Warn("placement failed",
			"request_id", sig.RequestID,
			"status", result.Status,
			"error_code", result.ErrorCode,
		)
	}

	return &Outcome{Status: status, Signal: sig, Placement: result}
}

// dropped finalizes a rejected signal: terminal status, metrics, one log line
func (p *Pipeline) dropped(status models.SignalStatus, sig *models.BetSignal, err error) *Outcome {
	var rejection *models.Rejection
	if !errors.As(err, &rejection) {
		rejection = &models.Rejection{Reason: models.RejectReason("internal"), Detail: err.Error()}
	}
	if sig != nil {
		sig.Status = status
	}

	p.metrics.RecordOutcome(string(status))
	p.metrics.RecordRejection(string(rejection.Reason))

	attrs := []any{"status", status, "reason", rejection.Reason, "detail", rejection.Detail}
	if sig != nil {
		attrs = append(attrs, "request_id", sig.RequestID)
	}
	p.log.Warn("signal dropped", attrs...)

	return &Outcome{Status: status, Signal: sig, Rejection: rejection}
}
