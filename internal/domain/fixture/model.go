package fixture

import (
	"strings"
	"time"
)

// ExpectedRoundSize is the slate size of a 20-team single round-robin round.
const ExpectedRoundSize = 10

// Team is one side of a fixture as shown to readers.
type Team struct {
	Name    string
	LogoURL string
}

// Goals holds the score; both sides are nil until the match kicks off.
type Goals struct {
	Home *int
	Away *int
}

// Fixture represents one match inside one round partition.
type Fixture struct {
	RoundID   string
	MatchKey  string
	Date      string
	KickoffAt time.Time
	HomeTeam  Team
	AwayTeam  Team
	Goals     Goals
}

// MatchKey derives the per-round document id from the participants.
func MatchKey(homeTeam, awayTeam string) string {
	return strings.TrimSpace(homeTeam) + " vs " + strings.TrimSpace(awayTeam)
}

// Less orders fixtures by kickoff, then match key.
func Less(a, b Fixture) bool {
	if !a.KickoffAt.Equal(b.KickoffAt) {
		return a.KickoffAt.Before(b.KickoffAt)
	}
	return a.MatchKey < b.MatchKey
}
