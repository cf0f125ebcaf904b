package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/domain/round"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultHistoryLimit = 5
	maxHistoryLimit     = 38
	historyReadWorkers  = 4
)

// RoundView is one round as presented to readers. Complete is false while the
// store holds fewer fixtures than a full round.
type RoundView struct {
	RoundID  string           `json:"round_id"`
	Fixtures []DisplayFixture `json:"fixtures"`
	Expected int              `json:"expected"`
	Complete bool             `json:"complete"`
}

type DisplayTeam struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

type DisplayFixture struct {
	MatchKey  string      `json:"match_key"`
	KickoffAt time.Time   `json:"kickoff_at"`
	DateLabel string      `json:"date_label"`
	HomeTeam  DisplayTeam `json:"home_team"`
	AwayTeam  DisplayTeam `json:"away_team"`
	HomeGoals *int        `json:"home_goals"`
	AwayGoals *int        `json:"away_goals"`
}

type RoundReader struct {
	store  fixture.Repository
	rounds round.Repository
	logger *logging.Logger
}

func NewRoundReader(store fixture.Repository, rounds round.Repository, logger *logging.Logger) *RoundReader {
	if logger == nil {
		logger = logging.Default()
	}
	return &RoundReader{
		store:  store,
		rounds: rounds,
		logger: logger,
	}
}

// ReadRound returns every stored fixture of roundID ordered by kickoff, ties
// broken by match key. A round with no stored fixtures is ErrRoundNotFound.
func (r *RoundReader) ReadRound(ctx context.Context, roundID string) (RoundView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundReader.ReadRound", attribute.String("round.id", roundID))
	defer span.End()

	if strings.TrimSpace(roundID) == "" {
		return RoundView{}, errors.Wrap(ErrInvalidInput, "round id is required")
	}

	items, err := r.store.ListByRound(ctx, roundID)
	if err != nil {
		return RoundView{}, errors.Wrapf(err, "list fixtures for round %q", roundID)
	}
	if len(items) == 0 {
		return RoundView{}, errors.Wrapf(ErrRoundNotFound, "round %q", roundID)
	}

	sorted := make([]fixture.Fixture, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return fixture.Less(sorted[i], sorted[j])
	})

	view := RoundView{
		RoundID:  roundID,
		Fixtures: make([]DisplayFixture, 0, len(sorted)),
		Expected: fixture.ExpectedRoundSize,
		Complete: len(sorted) >= fixture.ExpectedRoundSize,
	}
	for _, item := range sorted {
		view.Fixtures = append(view.Fixtures, toDisplayFixture(item))
	}

	return view, nil
}

// ListRounds returns tracked round ids, most recently discovered first.
func (r *RoundReader) ListRounds(ctx context.Context, limit int) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundReader.ListRounds")
	defer span.End()

	if r.rounds == nil {
		return []string{}, nil
	}

	tracked, err := r.rounds.ListNewestFirst(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list tracked rounds")
	}

	out := make([]string, 0, len(tracked))
	for _, item := range tracked {
		out = append(out, item.RoundID)
	}
	return out, nil
}

// ReadHistory reads up to limit tracked rounds newest first. Rounds that have
// no stored fixtures are skipped.
func (r *RoundReader) ReadHistory(ctx context.Context, limit int) ([]RoundView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundReader.ReadHistory", attribute.Int("history.limit", limit))
	defer span.End()

	limit = normalizeHistoryLimit(limit)
	roundIDs, err := r.ListRounds(ctx, limit)
	if err != nil {
		return nil, err
	}

	type historyResult struct {
		view RoundView
		err  error
	}
	mapper := iter.Mapper[string, historyResult]{MaxGoroutines: historyReadWorkers}
	results := mapper.Map(roundIDs, func(roundID *string) historyResult {
		view, err := r.ReadRound(ctx, *roundID)
		return historyResult{view: view, err: err}
	})

	out := make([]RoundView, 0, len(results))
	for idx, res := range results {
		if errors.Is(res.err, ErrRoundNotFound) {
			r.logger.DebugContext(ctx, "tracked round has no stored fixtures", "round_id", roundIDs[idx])
			continue
		}
		if res.err != nil {
			return nil, res.err
		}
		out = append(out, res.view)
	}
	return out, nil
}

func normalizeHistoryLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultHistoryLimit
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	default:
		return limit
	}
}

func toDisplayFixture(item fixture.Fixture) DisplayFixture {
	return DisplayFixture{
		MatchKey:  item.MatchKey,
		KickoffAt: item.KickoffAt.UTC(),
		DateLabel: FormatKickoff(item.KickoffAt),
		HomeTeam:  DisplayTeam{Name: item.HomeTeam.Name, LogoURL: item.HomeTeam.LogoURL},
		AwayTeam:  DisplayTeam{Name: item.AwayTeam.Name, LogoURL: item.AwayTeam.LogoURL},
		HomeGoals: copyInt(item.Goals.Home),
		AwayGoals: copyInt(item.Goals.Away),
	}
}

// FormatKickoff renders a kickoff in UTC as "March 04th, 2023 - 15:00".
func FormatKickoff(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s %02d%s, %d - %s",
		t.Month().String(),
		t.Day(),
		ordinalSuffix(t.Day()),
		t.Year(),
		t.Format("15:04"),
	)
}

func ordinalSuffix(day int) string {
	if day >= 4 && day <= 20 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
