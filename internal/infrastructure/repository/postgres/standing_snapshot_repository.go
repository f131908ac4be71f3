package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchdaylabs/football-sync/internal/domain/standing"
	qb "github.com/matchdaylabs/football-sync/internal/platform/querybuilder"
)

// A provider payload can carry the same team twice; after the delete the
// insert pass must stay insert-if-absent so a duplicate row is skipped
// instead of aborting the transaction.
const standingSnapshotConflictClause = "ON CONFLICT (league_id, season, team_id) DO NOTHING"

type StandingSnapshotRepository struct {
	db *sqlx.DB
}

func NewStandingSnapshotRepository(db *sqlx.DB) *StandingSnapshotRepository {
	return &StandingSnapshotRepository{db: db}
}

func (r *StandingSnapshotRepository) ListBySeason(ctx context.Context, leagueID int64, season int) ([]standing.Snapshot, error) {
	query, args, err := qb.Select("*").From("standing_snapshots").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season", season),
		).
		OrderBy("rank", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standing snapshots query: %w", err)
	}

	var rows []standingSnapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standing snapshots: %w", err)
	}

	out := make([]standing.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Snapshot{
			LeagueID:       row.LeagueID,
			Season:         row.Season,
			RoundName:      row.RoundName,
			Rank:           row.Rank,
			TeamID:         row.TeamID,
			Points:         row.Points,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			MatchesPlayed:  row.MatchesPlayed,
			Wins:           row.Wins,
			Draws:          row.Draws,
			Losses:         row.Losses,
			LastFive:       row.LastFive,
			HomeStat:       row.HomeStat,
			AwayStat:       row.AwayStat,
		})
	}

	return out, nil
}

func (r *StandingSnapshotRepository) ReplaceBySeason(ctx context.Context, leagueID int64, season int, snapshots []standing.Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standing snapshots: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("standing_snapshots").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season", season),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear standing snapshots query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear standing snapshots: %w", err)
	}

	for _, item := range snapshots {
		insertModel := standingSnapshotInsertModel{
			LeagueID:       leagueID,
			Season:         season,
			RoundName:      item.RoundName,
			Rank:           item.Rank,
			TeamID:         item.TeamID,
			Points:         item.Points,
			GoalsFor:       item.GoalsFor,
			GoalsAgainst:   item.GoalsAgainst,
			GoalDifference: item.GoalDifference,
			MatchesPlayed:  item.MatchesPlayed,
			Wins:           item.Wins,
			Draws:          item.Draws,
			Losses:         item.Losses,
			LastFive:       item.LastFive,
			HomeStat:       emptyJSONToNull(item.HomeStat),
			AwayStat:       emptyJSONToNull(item.AwayStat),
		}
		query, args, err := qb.InsertModel("standing_snapshots", insertModel, standingSnapshotConflictClause)
		if err != nil {
			return fmt.Errorf("build insert standing snapshot query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert standing snapshot team=%d: %w", item.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standing snapshots tx: %w", err)
	}
	return nil
}
