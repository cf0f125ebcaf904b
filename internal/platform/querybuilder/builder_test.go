package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("match_key", "document").
		From("fixture_documents").
		Where(Eq("round_id", "Regular Season - 26")).
		OrderBy("kickoff_at", "match_key").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT match_key, document FROM fixture_documents WHERE round_id = $1 ORDER BY kickoff_at, match_key"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "Regular Season - 26" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_MultipleConditionsAndLimit(t *testing.T) {
	query, args, err := Select("round_id").
		From("tracked_rounds").
		Where(Eq("league_id", 39), Eq("season", 2022)).
		OrderBy("sequence DESC").
		Limit(5).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT round_id FROM tracked_rounds WHERE league_id = $1 AND season = $2 ORDER BY sequence DESC LIMIT 5"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 39 || args[1] != 2022 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_RequiresTable(t *testing.T) {
	if _, _, err := Select("1").ToSQL(); err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestInsertBuilder_OnConflictDoUpdate(t *testing.T) {
	query, args, err := InsertInto("fixture_documents").
		Columns("round_id", "match_key", "document_hash").
		Values("r", "A vs B", "abc").
		OnConflict(OnConflict("round_id", "match_key").
			DoUpdateExcluded("document_hash").
			DoUpdateExpr("updated_at", "NOW()").
			Where("fixture_documents.document_hash <> EXCLUDED.document_hash")).
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO fixture_documents (round_id, match_key, document_hash) VALUES ($1, $2, $3) " +
		"ON CONFLICT (round_id, match_key) DO UPDATE SET document_hash = EXCLUDED.document_hash, updated_at = NOW() " +
		"WHERE fixture_documents.document_hash <> EXCLUDED.document_hash"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_DoNothingReturning(t *testing.T) {
	query, _, err := InsertInto("tracked_rounds").
		Columns("round_id").
		Values("r").
		OnConflict(OnConflict("round_id").DoNothing()).
		Returning("sequence").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO tracked_rounds (round_id) VALUES ($1) ON CONFLICT (round_id) DO NOTHING RETURNING sequence"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
}

func TestInsertBuilder_ValueCountMismatch(t *testing.T) {
	if _, _, err := InsertInto("t").Columns("a", "b").Values(1).ToSQL(); err == nil {
		t.Fatalf("expected error for value count mismatch")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		RoundID   string    `db:"round_id"`
		MatchKey  string    `db:"match_key"`
		KickoffAt time.Time `db:"kickoff_at"`
		Ignored   string    `db:"-"`
		internal  string
	}

	query, args, err := InsertModel("fixture_documents", row{RoundID: "r", MatchKey: "A vs B", internal: "x"}, nil)
	if err != nil {
		t.Fatalf("build insert model: %v", err)
	}

	wantQuery := "INSERT INTO fixture_documents (round_id, match_key, kickoff_at) VALUES ($1, $2, $3)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "r" || args[1] != "A vs B" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestColumns_RejectsNonStruct(t *testing.T) {
	if _, err := Columns(42); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
	var nilRow *struct{}
	if _, err := Columns(nilRow); err == nil {
		t.Fatalf("expected error for nil model")
	}
}
