package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func intPtr(v int) *int { return &v }

func validRawFixture() RawFixture {
	return RawFixture{
		ExternalID: 868020,
		Date:       "2023-03-04T15:00:00+00:00",
		HomeTeam:   RawTeam{ExternalID: 42, Name: "Arsenal", LogoURL: "https://media.api-sports.io/football/teams/42.png"},
		AwayTeam:   RawTeam{ExternalID: 35, Name: "Bournemouth", LogoURL: "https://media.api-sports.io/football/teams/35.png"},
		HomeGoals:  intPtr(3),
		AwayGoals:  intPtr(2),
	}
}

func TestToFixture_MapsRecord(t *testing.T) {
	t.Parallel()

	got, err := ToFixture("Regular Season - 26", validRawFixture())
	if err != nil {
		t.Fatalf("to fixture: %v", err)
	}
	if got.RoundID != "Regular Season - 26" {
		t.Fatalf("unexpected round id: %q", got.RoundID)
	}
	if got.MatchKey != "Arsenal vs Bournemouth" {
		t.Fatalf("unexpected match key: %q", got.MatchKey)
	}
	if !got.KickoffAt.Equal(time.Date(2023, time.March, 4, 15, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected kickoff: %s", got.KickoffAt)
	}
	if got.Date != "2023-03-04T15:00:00+00:00" {
		t.Fatalf("date must be kept verbatim, got %q", got.Date)
	}
	if got.Goals.Home == nil || *got.Goals.Home != 3 || got.Goals.Away == nil || *got.Goals.Away != 2 {
		t.Fatalf("unexpected goals: %+v", got.Goals)
	}
	if got.HomeTeam.LogoURL == "" || got.AwayTeam.LogoURL == "" {
		t.Fatalf("logos must be carried: %+v %+v", got.HomeTeam, got.AwayTeam)
	}
}

func TestToFixture_RoundIDIsVerbatim(t *testing.T) {
	t.Parallel()

	for _, roundID := range []string{"Regular Season - 26", "Round of 16 / Leg 2", "Jornada 7 (aplazada)"} {
		got, err := ToFixture(roundID, validRawFixture())
		if err != nil {
			t.Fatalf("to fixture %q: %v", roundID, err)
		}
		if got.RoundID != roundID {
			t.Fatalf("round id changed: got=%q want=%q", got.RoundID, roundID)
		}
	}
}

func TestToFixture_UnplayedMatchKeepsNilGoals(t *testing.T) {
	t.Parallel()

	raw := validRawFixture()
	raw.HomeGoals = nil
	raw.AwayGoals = nil

	got, err := ToFixture("Regular Season - 27", raw)
	if err != nil {
		t.Fatalf("to fixture: %v", err)
	}
	if got.Goals.Home != nil || got.Goals.Away != nil {
		t.Fatalf("expected nil goals, got %+v", got.Goals)
	}
}

func TestToFixture_DoesNotAliasGoalPointers(t *testing.T) {
	t.Parallel()

	raw := validRawFixture()
	got, err := ToFixture("Regular Season - 26", raw)
	if err != nil {
		t.Fatalf("to fixture: %v", err)
	}
	*raw.HomeGoals = 9
	if *got.Goals.Home != 3 {
		t.Fatalf("goal pointer aliased upstream record: %d", *got.Goals.Home)
	}
}

func TestToFixture_RejectsMalformedRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*RawFixture)
		reason string
	}{
		{
			name:   "missing home team",
			mutate: func(r *RawFixture) { r.HomeTeam.Name = "  " },
			reason: "HomeTeam.Name is required",
		},
		{
			name:   "missing away team",
			mutate: func(r *RawFixture) { r.AwayTeam.Name = "" },
			reason: "AwayTeam.Name is required",
		},
		{
			name:   "missing date",
			mutate: func(r *RawFixture) { r.Date = "" },
			reason: "Date is required",
		},
		{
			name:   "date without offset",
			mutate: func(r *RawFixture) { r.Date = "2023-03-04 15:00" },
			reason: "Date is not an ISO 8601 timestamp with offset",
		},
		{
			name:   "negative goals",
			mutate: func(r *RawFixture) { r.HomeGoals = intPtr(-1) },
			reason: "HomeGoals failed min",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			raw := validRawFixture()
			tc.mutate(&raw)

			_, err := ToFixture("Regular Season - 26", raw)
			if !errors.Is(err, ErrMalformedRecord) {
				t.Fatalf("expected ErrMalformedRecord, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.reason) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.reason)
			}
		})
	}
}

func TestToFixture_RequiresRoundID(t *testing.T) {
	t.Parallel()

	_, err := ToFixture(" ", validRawFixture())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	_, err := ToFixture("r", RawFixture{})
	if got := ErrorKind(err); got != "malformed_record" {
		t.Fatalf("unexpected kind: %s", got)
	}
	if got := ErrorKind(markUpstream(errors.New("dial tcp: refused"), "fetch")); got != "upstream_unavailable" {
		t.Fatalf("unexpected kind: %s", got)
	}
	if got := ErrorKind(errors.New("boom")); got != "unknown" {
		t.Fatalf("unexpected kind: %s", got)
	}
	if got := ErrorKind(nil); got != "" {
		t.Fatalf("unexpected kind for nil: %s", got)
	}
}
