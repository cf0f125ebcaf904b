package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

// FixtureRepository keeps one partition per round, keyed by match key.
type FixtureRepository struct {
	mu      sync.RWMutex
	byRound map[string]map[string]fixture.Fixture
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	repo := &FixtureRepository{byRound: make(map[string]map[string]fixture.Fixture)}
	for _, item := range fixtures {
		repo.put(item.RoundID, item)
	}
	return repo
}

func (r *FixtureRepository) Upsert(ctx context.Context, roundID string, item fixture.Fixture) error {
	if err := ctx.Err(); err != nil {
		return errors.Mark(err, usecase.ErrStoreUnavailable)
	}
	if strings.TrimSpace(roundID) == "" || strings.TrimSpace(item.MatchKey) == "" {
		return errors.Wrap(usecase.ErrInvalidInput, "round id and match key are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(roundID, item)
	return nil
}

func (r *FixtureRepository) ListByRound(_ context.Context, roundID string) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	partition := r.byRound[roundID]
	out := make([]fixture.Fixture, 0, len(partition))
	for _, item := range partition {
		out = append(out, cloneFixture(item))
	}
	sort.Slice(out, func(i, j int) bool {
		return fixture.Less(out[i], out[j])
	})
	return out, nil
}

func (r *FixtureRepository) put(roundID string, item fixture.Fixture) {
	partition, ok := r.byRound[roundID]
	if !ok {
		partition = make(map[string]fixture.Fixture)
		r.byRound[roundID] = partition
	}
	item.RoundID = roundID
	partition[item.MatchKey] = cloneFixture(item)
}

func cloneFixture(item fixture.Fixture) fixture.Fixture {
	item.Goals = fixture.Goals{
		Home: cloneInt(item.Goals.Home),
		Away: cloneInt(item.Goals.Away),
	}
	return item
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
