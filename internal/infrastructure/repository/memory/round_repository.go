package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/round"
)

type RoundRepository struct {
	mu      sync.Mutex
	seq     int64
	byRound map[string]round.Tracked
	now     func() time.Time
}

func NewRoundRepository() *RoundRepository {
	return &RoundRepository{
		byRound: make(map[string]round.Tracked),
		now:     time.Now,
	}
}

func (r *RoundRepository) Track(_ context.Context, roundID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	if existing, ok := r.byRound[roundID]; ok {
		existing.LastSyncAt = now
		r.byRound[roundID] = existing
		return nil
	}

	r.seq++
	r.byRound[roundID] = round.Tracked{
		RoundID:     roundID,
		Sequence:    r.seq,
		FirstSeenAt: now,
		LastSyncAt:  now,
	}
	return nil
}

// ListNewestFirst returns every tracked round when limit is not positive.
func (r *RoundRepository) ListNewestFirst(_ context.Context, limit int) ([]round.Tracked, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]round.Tracked, 0, len(r.byRound))
	for _, item := range r.byRound {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Sequence > out[j].Sequence
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
