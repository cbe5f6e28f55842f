package storage

import (
	"context"

	"github.com/pinwager/pinwager/internal/pkg/models"
)

// Journal records every placement attempt for later audit. Write failures
// must not fail the signal, callers log and continue.
type Journal interface {
	RecordPlacement(ctx context.Context, signal *models.BetSignal, result *models.PlacementResult) error
	Close() error
}

// NewJournal returns a Postgres-backed journal when a DSN is configured and
// a discarding journal otherwise.
func NewJournal(dsn string) (Journal, error) {
	if dsn == "" {
		return NopJournal{}, nil
	}
	return NewPostgresJournal(dsn)
}

// NopJournal discards every record
type NopJournal struct{}

var _ Journal = NopJournal{}

func (NopJournal) RecordPlacement(context.Context, *models.BetSignal, *models.PlacementResult) error {
	return nil
}

func (NopJournal) Close() error { return nil }
