package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	qb "github.com/riskibarqy/fixture-sync/internal/platform/querybuilder"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

// FixtureRepository stores one jsonb document per (round_id, match_key).
type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

// Upsert replaces the stored document for the match. Writing an identical
// document leaves the row untouched, including updated_at.
func (r *FixtureRepository) Upsert(ctx context.Context, roundID string, item fixture.Fixture) error {
	query, args, err := buildUpsertFixtureQuery(roundID, item)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return storeError(err, "upsert fixture document")
	}
	return nil
}

func (r *FixtureRepository) ListByRound(ctx context.Context, roundID string) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("round_id", "match_key", "document", "kickoff_at", "updated_at").
		From(fixtureDocumentsTable).
		Where(qb.Eq("round_id", roundID)).
		OrderBy("kickoff_at", "match_key").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select fixture documents query")
	}

	var rows []fixtureDocumentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, storeError(err, "select fixture documents")
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, errors.Mark(err, usecase.ErrStoreUnavailable)
		}
		out = append(out, item)
	}
	return out, nil
}

func buildUpsertFixtureQuery(roundID string, item fixture.Fixture) (string, []any, error) {
	if roundID == "" || item.MatchKey == "" {
		return "", nil, errors.Wrap(usecase.ErrInvalidInput, "round id and match key are required")
	}

	model, err := newFixtureDocumentInsertModel(roundID, item)
	if err != nil {
		return "", nil, err
	}

	query, args, err := qb.InsertModel(fixtureDocumentsTable, model,
		qb.OnConflict("round_id", "match_key").
			DoUpdateExcluded("document", "document_hash", "kickoff_at").
			DoUpdateExpr("updated_at", "NOW()").
			Where(fixtureDocumentsTable+".document_hash <> EXCLUDED.document_hash"),
	)
	if err != nil {
		return "", nil, errors.Wrap(err, "build upsert fixture document query")
	}
	return query, args, nil
}
