package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("teams").
		Where(Eq("country_id", int64(7)), In("id", []any{int64(1), int64(2)})).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM teams WHERE country_id = $1 AND id IN ($2, $3) ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderEmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("id").From("teams").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM teams WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderConflictSuffix(t *testing.T) {
	query, args, err := InsertInto("countries").
		Columns("name", "code").
		Values("England", "GB").
		Values("Spain", "ES").
		Suffix("ON CONFLICT (name) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO countries (name, code) VALUES ($1, $2), ($3, $4) ON CONFLICT (name) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "Spain" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("fixtures").
		Set("status", "FT").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", int64(99))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE fixtures SET status = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "FT" || args[1] != int64(99) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("standing_snapshots").
		Where(Eq("league_id", int64(39)), Eq("season", 2025)).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM standing_snapshots WHERE league_id = $1 AND season = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilderRequiresWhere(t *testing.T) {
	if _, _, err := DeleteFrom("standing_snapshots").ToSQL(); err == nil {
		t.Fatal("expected error for delete without conditions")
	}
}
