package fixture

import "context"

// Repository persists fixtures as one document per (round, match key).
type Repository interface {
	// Upsert creates the document or fully replaces the stored one.
	Upsert(ctx context.Context, roundID string, item Fixture) error
	// ListByRound returns the round's documents ordered by kickoff then match key.
	ListByRound(ctx context.Context, roundID string) ([]Fixture, error)
}
