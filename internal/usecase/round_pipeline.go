package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/domain/round"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultPipelineWorkers = fixture.ExpectedRoundSize

type RoundPipelineConfig struct {
	LeagueID  int
	Season    int
	SecretRef string
	Workers   int
}

// RunSummary is the externally observable result of one pipeline run.
type RunSummary struct {
	RunID         string          `json:"run_id"`
	LeagueID      int             `json:"league_id"`
	Season        int             `json:"season"`
	RoundID       string          `json:"round_id,omitempty"`
	NoActiveRound bool            `json:"no_active_round"`
	Attempted     int             `json:"attempted"`
	Succeeded     int             `json:"succeeded"`
	Failed        int             `json:"failed"`
	Failures      []RecordFailure `json:"failures"`
	StartedAt     time.Time       `json:"started_at"`
	FinishedAt    time.Time       `json:"finished_at"`
}

// RecordFailure describes one record that was not stored. Index is the
// zero-based position in the upstream batch.
type RecordFailure struct {
	Index    int    `json:"index"`
	MatchKey string `json:"match_key,omitempty"`
	Kind     string `json:"kind"`
	Reason   string `json:"reason"`
}

type RoundPipeline struct {
	secrets  SecretProvider
	provider FixtureProvider
	store    fixture.Repository
	rounds   round.Repository
	cfg      RoundPipelineConfig
	logger   *logging.Logger
	now      func() time.Time
	newRunID func() string
}

// NewRoundPipeline wires one pipeline. rounds may be nil when round tracking
// is not wanted.
func NewRoundPipeline(
	secrets SecretProvider,
	provider FixtureProvider,
	store fixture.Repository,
	rounds round.Repository,
	cfg RoundPipelineConfig,
	logger *logging.Logger,
) *RoundPipeline {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers < 1 {
		cfg.Workers = defaultPipelineWorkers
	}
	cfg.SecretRef = strings.TrimSpace(cfg.SecretRef)

	return &RoundPipeline{
		secrets:  secrets,
		provider: provider,
		store:    store,
		rounds:   rounds,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

// Run executes one scheduled load of the current round. Secret and upstream
// failures abort the run; per-record failures are collected in the summary.
func (p *RoundPipeline) Run(ctx context.Context) (RunSummary, error) {
	summary := RunSummary{
		RunID:     p.newRunID(),
		LeagueID:  p.cfg.LeagueID,
		Season:    p.cfg.Season,
		Failures:  []RecordFailure{},
		StartedAt: p.now().UTC(),
	}
	ctx, span := startRunSpan(ctx, "usecase.RoundPipeline.Run",
		attribute.String("run.id", summary.RunID),
		attribute.Int("league.id", p.cfg.LeagueID),
		attribute.Int("league.season", p.cfg.Season),
	)
	defer span.End()

	logger := p.logger.With("run_id", summary.RunID, "league_id", p.cfg.LeagueID, "season", p.cfg.Season)

	summary, err := p.run(ctx, logger, summary)
	summary.FinishedAt = p.now().UTC()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrorKind(err))
		logger.ErrorContext(ctx, "round pipeline run aborted",
			"round_id", summary.RoundID,
			"kind", ErrorKind(err),
			"error", err,
		)
		return summary, err
	}

	span.SetAttributes(
		attribute.String("round.id", summary.RoundID),
		attribute.Int("records.attempted", summary.Attempted),
		attribute.Int("records.failed", summary.Failed),
	)
	logger.InfoContext(ctx, "round pipeline run finished",
		"round_id", summary.RoundID,
		"no_active_round", summary.NoActiveRound,
		"attempted", summary.Attempted,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"duration_ms", summary.FinishedAt.Sub(summary.StartedAt).Milliseconds(),
	)
	return summary, nil
}

func (p *RoundPipeline) run(ctx context.Context, logger *logging.Logger, summary RunSummary) (RunSummary, error) {
	cred, err := p.resolveCredential(ctx)
	if err != nil {
		return summary, err
	}

	roundID, err := p.provider.CurrentRound(ctx, cred, p.cfg.LeagueID, p.cfg.Season)
	if errors.Is(err, ErrNoActiveRound) {
		summary.NoActiveRound = true
		logger.InfoContext(ctx, "no active round, nothing to load")
		return summary, nil
	}
	if err != nil {
		return summary, markUpstream(err, "discover current round")
	}
	summary.RoundID = roundID

	raws, err := p.provider.FixturesForRound(ctx, cred, p.cfg.LeagueID, p.cfg.Season, roundID)
	if err != nil {
		return summary, markUpstream(err, "fetch fixtures for round "+roundID)
	}
	if len(raws) < fixture.ExpectedRoundSize {
		logger.WarnContext(ctx, "upstream returned a partial round",
			"round_id", roundID,
			"received", len(raws),
			"expected", fixture.ExpectedRoundSize,
		)
	}
	if len(raws) == 0 {
		return summary, nil
	}

	outcomes, err := p.loadBatch(ctx, roundID, raws)
	if err != nil {
		return summary, err
	}

	summary.Attempted = len(outcomes)
	for idx, outcome := range outcomes {
		if outcome.err == nil && outcome.done {
			summary.Succeeded++
			continue
		}
		failure := RecordFailure{Index: idx, MatchKey: outcome.matchKey}
		if !outcome.done {
			failure.Kind = "aborted"
			failure.Reason = "worker stopped before the record finished"
		} else {
			failure.Kind = ErrorKind(outcome.err)
			failure.Reason = outcome.err.Error()
		}
		summary.Failures = append(summary.Failures, failure)
		logger.WarnContext(ctx, "fixture record not stored",
			"round_id", roundID,
			"index", idx,
			"match_key", failure.MatchKey,
			"kind", failure.Kind,
			"error", failure.Reason,
		)
	}
	summary.Failed = len(summary.Failures)

	if summary.Succeeded > 0 && p.rounds != nil {
		if err := p.rounds.Track(ctx, roundID); err != nil {
			logger.WarnContext(ctx, "track round failed", "round_id", roundID, "error", err)
		}
	}

	return summary, nil
}

func (p *RoundPipeline) resolveCredential(ctx context.Context) (APICredential, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundPipeline.resolveCredential")
	defer span.End()

	if p.cfg.SecretRef == "" {
		return APICredential{}, errors.Wrap(ErrSecretUnavailable, "api key secret reference is not configured")
	}

	key, err := p.secrets.Resolve(ctx, p.cfg.SecretRef)
	if err != nil {
		if !errors.Is(err, ErrSecretUnavailable) {
			err = errors.Mark(err, ErrSecretUnavailable)
		}
		return APICredential{}, errors.Wrap(err, "resolve api key")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return APICredential{}, errors.Wrap(ErrSecretUnavailable, "resolved api key is empty")
	}

	return APICredential{Key: key}, nil
}

type recordOutcome struct {
	matchKey string
	done     bool
	err      error
}

func (p *RoundPipeline) loadBatch(ctx context.Context, roundID string, raws []RawFixture) ([]recordOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundPipeline.loadBatch",
		attribute.String("round.id", roundID),
		attribute.Int("records.count", len(raws)),
	)
	defer span.End()

	workers := p.cfg.Workers
	if workers > len(raws) {
		workers = len(raws)
	}
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(rec any) {
		p.logger.ErrorContext(ctx, "fixture worker panicked", "round_id", roundID, "panic", rec)
	}))
	if err != nil {
		return nil, errors.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	// Each task writes only its own slot.
	outcomes := make([]recordOutcome, len(raws))
	var wg sync.WaitGroup
	for idx := range raws {
		idx := idx
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			outcomes[idx] = p.loadRecord(ctx, roundID, raws[idx])
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, errors.Wrap(err, "submit fixture to worker pool")
		}
	}
	wg.Wait()

	return outcomes, nil
}

func (p *RoundPipeline) loadRecord(ctx context.Context, roundID string, raw RawFixture) recordOutcome {
	item, err := ToFixture(roundID, raw)
	if err != nil {
		return recordOutcome{done: true, err: err}
	}

	out := recordOutcome{matchKey: item.MatchKey, done: true}
	if err := p.store.Upsert(ctx, roundID, item); err != nil {
		out.err = errors.Wrapf(err, "upsert %q", item.MatchKey)
	}
	return out
}

func markUpstream(err error, op string) error {
	if !errors.Is(err, ErrUpstreamUnavailable) {
		err = errors.Mark(err, ErrUpstreamUnavailable)
	}
	return errors.Wrap(err, op)
}
