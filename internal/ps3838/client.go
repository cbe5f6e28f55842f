package ps3838

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pinwager/pinwager/internal/pkg/config"
	"github.com/pinwager/pinwager/internal/pkg/metrics"
)

const (
	fixturesPath = "/v3/fixtures"
	linePath     = "/v2/line"
	placePath    = "/v2/bets/place"
)

// Client is the typed PS3838 API client. Every call carries HTTP basic auth
// and the configured timeout. Failed calls are returned to the caller as-is:
// the pipeline treats them as stage failures and the operator resubmits.
type Client struct {
	http    *resty.Client
	metrics *metrics.Metrics
}

// New builds a client from the static configuration
func New(cfg config.PS3838Config, m *metrics.Metrics) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetBasicAuth(cfg.Username, cfg.Password).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:    httpClient,
		metrics: m,
	}
}

// Fixtures fetches the league/event tree for one sport
func (c *Client) Fixtures(ctx context.Context, sportID int64) (*FixturesResponse, error) {
	var out FixturesResponse

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("sportId", strconv.FormatInt(sportID, 10)).
		SetResult(&out).
		Get(fixturesPath)
	c.observe("fixtures", resp, err, start)

	if err != nil {
		return nil, fmt.Errorf("fixtures request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fixtures request returned %s", resp.Status())
	}

	return &out, nil
}

// Line fetches the current straight-bet line for one market
func (c *Client) Line(ctx context.Context, req LineRequest) (*LineResponse, error) {
	var out LineResponse

	r := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"sportId":      strconv.FormatInt(req.SportID, 10),
			"leagueId":     strconv.FormatInt(req.LeagueID, 10),
			"eventId":      strconv.FormatInt(req.EventID, 10),
			"periodNumber": strconv.Itoa(req.PeriodNumber),
			"betType":      req.BetType,
			"team":         req.Team,
			"oddsFormat":   OddsFormatDecimal,
		}).
		SetResult(&out)
	if req.Handicap != nil {
		r.SetQueryParam("handicap", strconv.FormatFloat(*req.Handicap, 'f', -1, 64))
	}

	start := time.Now()
	resp, err := r.Get(linePath)
	c.observe("line", resp, err, start)

	if err != nil {
		return nil, fmt.Errorf("line request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("line request returned %s", resp.Status())
	}

	return &out, nil
}

// PlaceBet submits one straight bet. The book deduplicates on
// UniqueRequestID, so resubmitting the same request cannot double-book.
func (c *Client) PlaceBet(ctx context.Context, req *PlaceBetRequest) (*PlaceBetResponse, error) {
	var out PlaceBetResponse

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post(placePath)
	c.observe("place", resp, err, start)

	if err != nil {
		return nil, fmt.Errorf("place bet request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("place bet request returned %s", resp.Status())
	}

	return &out, nil
}

func (c *Client) observe(endpoint string, resp *resty.Response, err error, start time.Time) {
	result := "ok"
	switch {
	case err != nil:
		result = "transport_error"
	case resp.IsError():
		result = "http_error"
	}
	c.metrics.ObserveBookRequest(endpoint, result, time.Since(start))
}
