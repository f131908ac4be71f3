package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchdaylabs/football-sync/internal/domain/league"
	qb "github.com/matchdaylabs/football-sync/internal/platform/querybuilder"
)

// Leagues are unique on both id and (name, season, country_id); the bare
// clause absorbs a conflict on either key.
const leagueConflictClause = "ON CONFLICT DO NOTHING"

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) ListIDs(ctx context.Context) ([]int64, error) {
	query, args, err := qb.Select("id").From("leagues").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league ids query: %w", err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list league ids: %w", err)
	}

	return ids, nil
}

func (r *LeagueRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]league.League, error) {
	if len(ids) == 0 {
		return map[int64]league.League{}, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}

	query, args, err := qb.Select("*").From("leagues").
		Where(qb.In("id", values)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues by id query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues by id: %w", err)
	}

	out := make(map[int64]league.League, len(rows))
	for _, row := range rows {
		out[row.ID] = league.League{
			ID:        row.ID,
			Name:      row.Name,
			Logo:      row.Logo,
			Type:      row.Type,
			CountryID: row.CountryID,
			Season:    row.Season,
		}
	}

	return out, nil
}

func (r *LeagueRepository) InsertIfAbsent(ctx context.Context, leagues []league.League) error {
	for _, item := range leagues {
		insertModel := leagueInsertModel{
			ID:        item.ID,
			Name:      item.Name,
			Logo:      item.Logo,
			Type:      item.Type,
			CountryID: item.CountryID,
			Season:    item.Season,
		}
		query, args, err := qb.InsertModel("leagues", insertModel, leagueConflictClause)
		if err != nil {
			return fmt.Errorf("build insert league query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert league %d: %w", item.ID, err)
		}
	}

	return nil
}
