package postgres

import (
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/valyala/bytebufferpool"
)

const fixtureDocumentsTable = "fixture_documents"

// fixtureDocument is the jsonb body stored per match. Its shape matches what
// dashboards read: date, teams and goals.
type fixtureDocument struct {
	Date  string          `json:"date"`
	Teams fixtureDocTeams `json:"teams"`
	Goals fixtureDocScore `json:"goals"`
}

type fixtureDocTeams struct {
	Home fixtureDocTeam `json:"home"`
	Away fixtureDocTeam `json:"away"`
}

type fixtureDocTeam struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type fixtureDocScore struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type fixtureDocumentInsertModel struct {
	RoundID      string    `db:"round_id"`
	MatchKey     string    `db:"match_key"`
	Document     string    `db:"document"`
	DocumentHash string    `db:"document_hash"`
	KickoffAt    time.Time `db:"kickoff_at"`
}

type fixtureDocumentRow struct {
	RoundID   string    `db:"round_id"`
	MatchKey  string    `db:"match_key"`
	Document  string    `db:"document"`
	KickoffAt time.Time `db:"kickoff_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func newFixtureDocumentInsertModel(roundID string, item fixture.Fixture) (fixtureDocumentInsertModel, error) {
	doc := fixtureDocument{
		Date: item.Date,
		Teams: fixtureDocTeams{
			Home: fixtureDocTeam{Name: item.HomeTeam.Name, Logo: item.HomeTeam.LogoURL},
			Away: fixtureDocTeam{Name: item.AwayTeam.Name, Logo: item.AwayTeam.LogoURL},
		},
		Goals: fixtureDocScore{Home: item.Goals.Home, Away: item.Goals.Away},
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigStd.NewEncoder(buf).Encode(doc); err != nil {
		return fixtureDocumentInsertModel{}, errors.Wrapf(err, "encode fixture document %q", item.MatchKey)
	}
	encoded := buf.B
	if n := len(encoded); n > 0 && encoded[n-1] == '\n' {
		encoded = encoded[:n-1]
	}

	return fixtureDocumentInsertModel{
		RoundID:      roundID,
		MatchKey:     item.MatchKey,
		Document:     string(encoded),
		DocumentHash: strconv.FormatUint(xxhash.Sum64(encoded), 16),
		KickoffAt:    item.KickoffAt.UTC(),
	}, nil
}

func (r fixtureDocumentRow) toDomain() (fixture.Fixture, error) {
	var doc fixtureDocument
	if err := sonic.UnmarshalString(r.Document, &doc); err != nil {
		return fixture.Fixture{}, errors.Wrapf(err, "decode fixture document %q", r.MatchKey)
	}

	return fixture.Fixture{
		RoundID:   r.RoundID,
		MatchKey:  r.MatchKey,
		Date:      doc.Date,
		KickoffAt: r.KickoffAt.UTC(),
		HomeTeam:  fixture.Team{Name: doc.Teams.Home.Name, LogoURL: doc.Teams.Home.Logo},
		AwayTeam:  fixture.Team{Name: doc.Teams.Away.Name, LogoURL: doc.Teams.Away.Logo},
		Goals:     fixture.Goals{Home: doc.Goals.Home, Away: doc.Goals.Away},
	}, nil
}
