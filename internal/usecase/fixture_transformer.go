package usecase

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
)

var rawFixtureValidator = validator.New(validator.WithRequiredStructEnabled())

// ToFixture maps one upstream record into the canonical fixture for roundID.
// The round id is carried verbatim. Absent goals stay nil.
func ToFixture(roundID string, raw RawFixture) (fixture.Fixture, error) {
	if strings.TrimSpace(roundID) == "" {
		return fixture.Fixture{}, errors.Wrap(ErrInvalidInput, "round id is required")
	}

	raw.Date = strings.TrimSpace(raw.Date)
	raw.HomeTeam.Name = strings.TrimSpace(raw.HomeTeam.Name)
	raw.AwayTeam.Name = strings.TrimSpace(raw.AwayTeam.Name)
	if err := rawFixtureValidator.Struct(raw); err != nil {
		return fixture.Fixture{}, errors.Wrapf(ErrMalformedRecord, "fixture %d: %s", raw.ExternalID, describeValidation(err))
	}

	kickoffAt, err := time.Parse(time.RFC3339, raw.Date)
	if err != nil {
		return fixture.Fixture{}, errors.Wrapf(ErrMalformedRecord, "fixture %d: kickoff %q is not RFC 3339", raw.ExternalID, raw.Date)
	}

	return fixture.Fixture{
		RoundID:   roundID,
		MatchKey:  fixture.MatchKey(raw.HomeTeam.Name, raw.AwayTeam.Name),
		Date:      raw.Date,
		KickoffAt: kickoffAt,
		HomeTeam: fixture.Team{
			Name:    raw.HomeTeam.Name,
			LogoURL: strings.TrimSpace(raw.HomeTeam.LogoURL),
		},
		AwayTeam: fixture.Team{
			Name:    raw.AwayTeam.Name,
			LogoURL: strings.TrimSpace(raw.AwayTeam.LogoURL),
		},
		Goals: fixture.Goals{
			Home: copyInt(raw.HomeGoals),
			Away: copyInt(raw.AwayGoals),
		},
	}, nil
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		field := strings.TrimPrefix(fieldErr.Namespace(), "RawFixture.")
		switch fieldErr.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "datetime":
			parts = append(parts, field+" is not an ISO 8601 timestamp with offset")
		default:
			parts = append(parts, field+" failed "+fieldErr.Tag())
		}
	}
	return strings.Join(parts, "; ")
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
