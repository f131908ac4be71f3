package postgres

import (
	"strings"
	"testing"

	qb "github.com/matchdaylabs/football-sync/internal/platform/querybuilder"
)

func TestStandingSnapshotInsertSkipsDuplicateRows(t *testing.T) {
	model := standingSnapshotInsertModel{
		LeagueID: 39,
		Season:   2025,
		Rank:     1,
		TeamID:   50,
		Points:   30,
	}

	query, args, err := qb.InsertModel("standing_snapshots", model, standingSnapshotConflictClause)
	if err != nil {
		t.Fatalf("build insert standing snapshot query: %v", err)
	}

	if !strings.HasSuffix(query, "ON CONFLICT (league_id, season, team_id) DO NOTHING") {
		t.Fatalf("insert is not insert-if-absent: %s", query)
	}
	if len(args) != 16 {
		t.Fatalf("expected 16 bound columns, got %d", len(args))
	}
}
