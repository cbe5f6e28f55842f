package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/pinwager/pinwager/internal/pkg/models"
)

// Ensure PostgresJournal implements Journal
var _ Journal = (*PostgresJournal)(nil)

// PostgresJournal stores placement attempts in PostgreSQL
type PostgresJournal struct {
	db *sql.DB
}

// NewPostgresJournal opens the connection and prepares the schema
func NewPostgresJournal(dsn string) (*PostgresJournal, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	journal := &PostgresJournal{db: db}
	if err := journal.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return journal, nil
}

func (j *PostgresJournal) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS placements (
		id SERIAL PRIMARY KEY,
		request_id VARCHAR(100) NOT NULL,
		sport VARCHAR(50) NOT NULL,
		match_name VARCHAR(500) NOT NULL,
		league_id BIGINT NOT NULL,
		event_id BIGINT NOT NULL,
		market_type VARCHAR(50) NOT NULL,
		selection VARCHAR(500) NOT NULL,
		handicap DECIMAL(10, 4),
		stake DECIMAL(12, 2) NOT NULL,
		quoted_odds DECIMAL(10, 4) NOT NULL,
		market_odds DECIMAL(10, 4) NOT NULL,
		accepted BOOLEAN NOT NULL,
		status VARCHAR(100) NOT NULL,
		error_code VARCHAR(200),
		bet_id BIGINT,
		final_odds DECIMAL(10, 4),
		potential_win DECIMAL(12, 2),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(request_id)
	);

	CREATE INDEX IF NOT EXISTS idx_placements_created_at ON placements(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_placements_status ON placements(status);
	`

	_, err := j.db.ExecContext(ctx, query)
	return err
}

// RecordPlacement inserts one placement attempt. Duplicate request ids are
// ignored, matching the book's own idempotency behavior.
func (j *PostgresJournal) RecordPlacement(ctx context.Context, signal *models.BetSignal, result *models.PlacementResult) error {
	query := `
	INSERT INTO placements (
		request_id, sport, match_name, league_id, event_id,
		market_type, selection, handicap,
		stake, quoted_odds, market_odds,
		accepted, status, error_code, bet_id, final_odds, potential_win
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	ON CONFLICT (request_id) DO NOTHING
	`

	var handicap any
	if signal.HasHandicap {
		handicap = signal.Handicap.String()
	}
	var betID any
	if result.BetID != 0 {
		betID = result.BetID
	}

	_, err := j.db.ExecContext(ctx, query,
		signal.RequestID,
		signal.Sport.String(),
		signal.MatchName(),
		signal.LeagueID,
		signal.EventID,
		signal.MarketType.String(),
		signal.Selection,
		handicap,
		signal.StakeAmount.String(),
		signal.QuotedOdds.String(),
		signal.MarketOdds.String(),
		result.Accepted,
		result.Status,
		result.ErrorCode,
		betID,
		result.FinalOdds.String(),
		result.PotentialWin.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to record placement: %w", err)
	}

	return nil
}

// Close closes the database connection
func (j *PostgresJournal) Close() error {
	return j.db.Close()
}
