package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchdaylabs/football-sync/internal/domain/fixture"
	qb "github.com/matchdaylabs/football-sync/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) ListByLeague(ctx context.Context, leagueID int64) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("kickoff", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.Fixture{
			ID:                row.ID,
			Kickoff:           row.Kickoff,
			LeagueID:          row.LeagueID,
			HomeTeamID:        row.HomeTeamID,
			AwayTeamID:        row.AwayTeamID,
			Referee:           row.Referee,
			Venue:             row.Venue,
			Status:            row.Status,
			HeadToHead:        row.HeadToHead,
			SnapshotProcessed: row.SnapshotProcessed,
		})
	}

	return out, nil
}

func (r *FixtureRepository) InsertIfAbsent(ctx context.Context, fixtures []fixture.Fixture) error {
	for _, item := range fixtures {
		insertModel := fixtureInsertModel{
			ID:                item.ID,
			Kickoff:           item.Kickoff,
			LeagueID:          item.LeagueID,
			HomeTeamID:        item.HomeTeamID,
			AwayTeamID:        item.AwayTeamID,
			Referee:           item.Referee,
			Venue:             item.Venue,
			Status:            item.Status,
			HeadToHead:        emptyJSONToNull(item.HeadToHead),
			SnapshotProcessed: item.SnapshotProcessed,
		}
		query, args, err := qb.InsertModel("fixtures", insertModel, "ON CONFLICT (id) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build insert fixture query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert fixture %d: %w", item.ID, err)
		}
	}

	return nil
}

func (r *FixtureRepository) MarkSnapshotProcessed(ctx context.Context, fixtureID int64) error {
	query, args, err := qb.Update("fixtures").
		Set("snapshot_processed", true).
		Where(qb.Eq("id", fixtureID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark fixture processed query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark fixture %d processed: %w", fixtureID, err)
	}

	return nil
}
