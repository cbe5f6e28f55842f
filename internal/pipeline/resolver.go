package pipeline

import (
	"context"
	"strings"

	"github.com/pinwager/pinwager/internal/pkg/enums"
	"github.com/pinwager/pinwager/internal/pkg/models"
	"github.com/pinwager/pinwager/internal/ps3838"
)

// resolveEvent locates the signal's fixture in the book's catalog and writes
// league, event and parent ids onto the signal.
//
// The league title must match a league name exactly (case-insensitive). A
// missing title fails resolution: team names are not unique across leagues,
// so there is no catalog-wide fallback search. Within the league, moneyline
// signals match only top-level events (no parent), spread signals match any
// event still open for betting. The first match wins.
func (p *Pipeline) resolveEvent(ctx context.Context, sig *models.BetSignal) error {
	if sig.LeagueTitle == "" {
		return models.Reject(models.ReasonEventNotFound, "tip carries no league title")
	}

	fixtures, err := p.book.Fixtures(ctx, sig.Sport.SportID())
	if err != nil {
		return models.Reject(models.ReasonEventNotFound, "fixtures lookup failed: %v", err)
	}

	league := matchLeague(fixtures.Leagues, sig.LeagueTitle)
	if league == nil {
		return models.Reject(models.ReasonEventNotFound, "league %q not in catalog", sig.LeagueTitle)
	}

	event := matchEvent(league.Events, sig)
	if event == nil {
		return models.Reject(models.ReasonEventNotFound, "no %s fixture for %q in %q",
			sig.MarketType.DisplayName(), sig.MatchName(), league.Name)
	}

	sig.LeagueID = league.ID
	sig.EventID = event.ID
	sig.ParentEventID = event.ParentID
	sig.Status = models.StatusEventResolved
	return nil
}

func matchLeague(leagues []ps3838.FixturesLeague, title string) *ps3838.FixturesLeague {
	for i := range leagues {
		if strings.EqualFold(leagues[i].Name, title) {
			return &leagues[i]
		}
	}
	return nil
}

func matchEvent(events []ps3838.FixtureEvent, sig *models.BetSignal) *ps3838.FixtureEvent {
	for i := range events {
		event := &events[i]
		if !strings.EqualFold(event.Home, sig.HomeTeam) || !strings.EqualFold(event.Away, sig.AwayTeam) {
			continue
		}
		switch sig.MarketType {
		case enums.Moneyline:
			if event.ParentID == 0 {
				return event
			}
		case enums.Spread:
			if event.IsOpen() {
				return event
			}
		}
	}
	return nil
}
