package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/domain/round"
	basecache "github.com/riskibarqy/fixture-sync/internal/platform/cache"
)

const (
	fixtureRoundKeyPrefix = "fixture:round:"
	roundListKeyPrefix    = "round:list:"
)

// FixtureRepository caches round reads in-process. Writes through this
// decorator drop the round's entry; writes from other processes become
// visible when the entry expires.
type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store[[]fixture.Fixture]
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store[[]fixture.Fixture]) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) Upsert(ctx context.Context, roundID string, item fixture.Fixture) error {
	err := r.next.Upsert(ctx, roundID, item)
	r.cache.Delete(ctx, fixtureRoundKeyPrefix+roundID)
	return err
}

func (r *FixtureRepository) ListByRound(ctx context.Context, roundID string) ([]fixture.Fixture, error) {
	items, err := r.cache.GetOrLoad(ctx, fixtureRoundKeyPrefix+roundID, func(ctx context.Context) ([]fixture.Fixture, error) {
		return r.next.ListByRound(ctx, roundID)
	})
	if err != nil {
		return nil, err
	}
	return cloneFixtures(items), nil
}

type RoundRepository struct {
	next  round.Repository
	cache *basecache.Store[[]round.Tracked]
}

func NewRoundRepository(next round.Repository, cache *basecache.Store[[]round.Tracked]) *RoundRepository {
	return &RoundRepository{next: next, cache: cache}
}

func (r *RoundRepository) Track(ctx context.Context, roundID string) error {
	err := r.next.Track(ctx, roundID)
	r.cache.DeletePrefix(ctx, roundListKeyPrefix)
	return err
}

func (r *RoundRepository) ListNewestFirst(ctx context.Context, limit int) ([]round.Tracked, error) {
	key := roundListKeyPrefix + strconv.Itoa(limit)
	items, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) ([]round.Tracked, error) {
		return r.next.ListNewestFirst(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return append([]round.Tracked(nil), items...), nil
}

func cloneFixtures(items []fixture.Fixture) []fixture.Fixture {
	out := make([]fixture.Fixture, len(items))
	for i, item := range items {
		item.Goals = fixture.Goals{Home: cloneInt(item.Goals.Home), Away: cloneInt(item.Goals.Away)}
		out[i] = item
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
