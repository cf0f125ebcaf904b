package usecase

import "context"

// SecretProvider resolves a fully-qualified secret reference to its value.
// Implementations fail with ErrSecretUnavailable when the reference is missing
// or access is denied.
type SecretProvider interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// APICredential is the per-run credential handed to the fixture provider.
type APICredential struct {
	Key string
}

// FixtureProvider is the transport to the upstream sports API. Implementations
// never retry; retry policy lives with the scheduler.
type FixtureProvider interface {
	// CurrentRound fails with ErrNoActiveRound when the league has no current
	// round and ErrUpstreamUnavailable on transport failures.
	CurrentRound(ctx context.Context, cred APICredential, leagueID, season int) (string, error)
	// FixturesForRound returns the upstream batch in upstream order. The batch
	// may be shorter than a full round.
	FixturesForRound(ctx context.Context, cred APICredential, leagueID, season int, roundID string) ([]RawFixture, error)
}

// RawFixture is the typed shape of one upstream fixture record.
type RawFixture struct {
	ExternalID int64
	Date       string `validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	HomeTeam   RawTeam
	AwayTeam   RawTeam
	HomeGoals  *int `validate:"omitempty,min=0"`
	AwayGoals  *int `validate:"omitempty,min=0"`
}

type RawTeam struct {
	ExternalID int64
	Name       string `validate:"required"`
	LogoURL    string
}
