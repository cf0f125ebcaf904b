package memory

import (
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
)

// SeedRoundID is the round preloaded when the service runs on the memory
// backend without an upstream key.
const SeedRoundID = "Regular Season - 26"

func SeedFixtures() []fixture.Fixture {
	kickoff := time.Date(2023, time.March, 4, 15, 0, 0, 0, time.UTC)
	seed := []struct {
		home, away string
		offset     time.Duration
		goals      [2]int
	}{
		{"Manchester City", "Newcastle", -2*time.Hour - 30*time.Minute, [2]int{2, 0}},
		{"Arsenal", "Bournemouth", 0, [2]int{3, 2}},
		{"Aston Villa", "Crystal Palace", 0, [2]int{1, 0}},
		{"Brighton", "West Ham", 0, [2]int{4, 0}},
		{"Chelsea", "Leeds", 0, [2]int{1, 0}},
		{"Wolves", "Tottenham", 0, [2]int{1, 0}},
		{"Southampton", "Leicester", 2*time.Hour + 30*time.Minute, [2]int{1, 0}},
	}

	out := make([]fixture.Fixture, 0, len(seed))
	for _, item := range seed {
		at := kickoff.Add(item.offset)
		home, away := item.goals[0], item.goals[1]
		out = append(out, fixture.Fixture{
			RoundID:   SeedRoundID,
			MatchKey:  fixture.MatchKey(item.home, item.away),
			Date:      at.Format(time.RFC3339),
			KickoffAt: at,
			HomeTeam:  fixture.Team{Name: item.home},
			AwayTeam:  fixture.Team{Name: item.away},
			Goals:     fixture.Goals{Home: &home, Away: &away},
		})
	}
	return out
}
