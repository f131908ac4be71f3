package postgres

import (
	"strings"
	"testing"

	qb "github.com/matchdaylabs/football-sync/internal/platform/querybuilder"
)

func TestLeagueInsertAbsorbsEitherUniqueKey(t *testing.T) {
	model := leagueInsertModel{
		ID:        39,
		Name:      "Premier League",
		CountryID: 7,
		Season:    2025,
	}

	query, _, err := qb.InsertModel("leagues", model, leagueConflictClause)
	if err != nil {
		t.Fatalf("build insert league query: %v", err)
	}

	// A targeted ON CONFLICT (id) would no longer be insert-if-absent once a
	// league with the same (name, season, country_id) but a changed provider
	// id arrives; the clause must stay untargeted.
	if !strings.HasSuffix(query, "ON CONFLICT DO NOTHING") {
		t.Fatalf("insert is not insert-if-absent: %s", query)
	}
	if strings.Contains(query, "ON CONFLICT (") {
		t.Fatalf("conflict clause must not name a single key: %s", query)
	}
}
