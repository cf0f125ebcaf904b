package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

func TestFixtureRepository_UpsertReplacesByMatchKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFixtureRepository(nil)
	kickoff := time.Date(2023, time.March, 4, 15, 0, 0, 0, time.UTC)
	item := fixture.Fixture{
		MatchKey:  fixture.MatchKey("Arsenal", "Bournemouth"),
		KickoffAt: kickoff,
		HomeTeam:  fixture.Team{Name: "Arsenal"},
		AwayTeam:  fixture.Team{Name: "Bournemouth"},
	}

	if err := repo.Upsert(ctx, "Regular Season - 26", item); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	home, away := 3, 2
	item.Goals = fixture.Goals{Home: &home, Away: &away}
	if err := repo.Upsert(ctx, "Regular Season - 26", item); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.ListByRound(ctx, "Regular Season - 26")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected count: %d", len(got))
	}
	if got[0].RoundID != "Regular Season - 26" || *got[0].Goals.Home != 3 {
		t.Fatalf("unexpected fixture: %+v", got[0])
	}

	home = 7
	if *got[0].Goals.Home != 3 {
		t.Fatalf("stored goals aliased caller memory")
	}
}

func TestFixtureRepository_PartitionsByRound(t *testing.T) {
	t.Parallel()

	repo := NewFixtureRepository(SeedFixtures())

	seeded, _ := repo.ListByRound(context.Background(), SeedRoundID)
	if len(seeded) != 7 {
		t.Fatalf("unexpected seeded count: %d", len(seeded))
	}
	for i := 1; i < len(seeded); i++ {
		if fixture.Less(seeded[i], seeded[i-1]) {
			t.Fatalf("fixtures not ordered at %d", i)
		}
	}

	other, _ := repo.ListByRound(context.Background(), "Regular Season - 27")
	if len(other) != 0 {
		t.Fatalf("unexpected fixtures in other round: %d", len(other))
	}
}

func TestFixtureRepository_RejectsEmptyKeys(t *testing.T) {
	t.Parallel()

	repo := NewFixtureRepository(nil)
	err := repo.Upsert(context.Background(), "", fixture.Fixture{MatchKey: "A vs B"})
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFixtureRepository_ConcurrentUpserts(t *testing.T) {
	t.Parallel()

	repo := NewFixtureRepository(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fixture.MatchKey("Home", string(rune('A'+i%10)))
			_ = repo.Upsert(context.Background(), "r", fixture.Fixture{MatchKey: key})
		}(i)
	}
	wg.Wait()

	got, _ := repo.ListByRound(context.Background(), "r")
	if len(got) != 10 {
		t.Fatalf("unexpected count: %d", len(got))
	}
}

func TestRoundRepository_TrackOrdersBySequence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRoundRepository()
	for _, id := range []string{"Regular Season - 9", "Regular Season - 10", "Regular Season - 9", "Regular Season - 11"} {
		if err := repo.Track(ctx, id); err != nil {
			t.Fatalf("track %s: %v", id, err)
		}
	}

	got, err := repo.ListNewestFirst(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].RoundID != "Regular Season - 11" || got[1].RoundID != "Regular Season - 10" {
		t.Fatalf("unexpected rounds: %+v", got)
	}

	all, _ := repo.ListNewestFirst(ctx, 0)
	if len(all) != 3 {
		t.Fatalf("re-tracking must not add a round: %+v", all)
	}
}
