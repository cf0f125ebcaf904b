package round

import "context"

// Repository records which rounds have been loaded. Labels are stored verbatim;
// ordering comes from the sequence assigned on first sight.
type Repository interface {
	Track(ctx context.Context, roundID string) error
	ListNewestFirst(ctx context.Context, limit int) ([]Tracked, error)
}
