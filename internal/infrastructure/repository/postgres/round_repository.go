package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/internal/domain/round"
	qb "github.com/riskibarqy/fixture-sync/internal/platform/querybuilder"
)

const trackedRoundsTable = "tracked_rounds"

type trackedRoundRow struct {
	RoundID     string    `db:"round_id"`
	Sequence    int64     `db:"sequence"`
	FirstSeenAt time.Time `db:"first_seen_at"`
	LastSyncAt  time.Time `db:"last_sync_at"`
}

type trackedRoundInsertModel struct {
	RoundID string `db:"round_id"`
}

// RoundRepository records loaded round labels in tracked_rounds. The BIGSERIAL
// sequence gives discovery order without parsing labels.
type RoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

func (r *RoundRepository) Track(ctx context.Context, roundID string) error {
	query, args, err := buildTrackRoundQuery(roundID)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return storeError(err, "track round")
	}
	return nil
}

func (r *RoundRepository) ListNewestFirst(ctx context.Context, limit int) ([]round.Tracked, error) {
	query, args, err := qb.Select("round_id", "sequence", "first_seen_at", "last_sync_at").
		From(trackedRoundsTable).
		OrderBy("sequence DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select tracked rounds query")
	}

	var rows []trackedRoundRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, storeError(err, "select tracked rounds")
	}

	out := make([]round.Tracked, 0, len(rows))
	for _, row := range rows {
		out = append(out, round.Tracked{
			RoundID:     row.RoundID,
			Sequence:    row.Sequence,
			FirstSeenAt: row.FirstSeenAt.UTC(),
			LastSyncAt:  row.LastSyncAt.UTC(),
		})
	}
	return out, nil
}

func buildTrackRoundQuery(roundID string) (string, []any, error) {
	query, args, err := qb.InsertModel(trackedRoundsTable, trackedRoundInsertModel{RoundID: roundID},
		qb.OnConflict("round_id").DoUpdateExpr("last_sync_at", "NOW()"),
	)
	if err != nil {
		return "", nil, errors.Wrap(err, "build track round query")
	}
	return query, args, nil
}
