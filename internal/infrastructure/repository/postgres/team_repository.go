package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchdaylabs/football-sync/internal/domain/team"
	qb "github.com/matchdaylabs/football-sync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]team.Team, error) {
	if len(ids) == 0 {
		return map[int64]team.Team{}, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}

	query, args, err := qb.Select("*").From("teams").
		Where(qb.In("id", values)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by id query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by id: %w", err)
	}

	out := make(map[int64]team.Team, len(rows))
	for _, row := range rows {
		out[row.ID] = team.Team{
			ID:        row.ID,
			Name:      row.Name,
			ShortName: row.ShortName,
			Logo:      row.Logo,
			CountryID: row.CountryID,
			National:  row.National,
		}
	}

	return out, nil
}

func (r *TeamRepository) InsertIfAbsent(ctx context.Context, teams []team.Team) error {
	for _, item := range teams {
		insertModel := teamInsertModel{
			ID:        item.ID,
			Name:      item.Name,
			ShortName: item.ShortName,
			Logo:      item.Logo,
			CountryID: item.CountryID,
			National:  item.National,
		}
		query, args, err := qb.InsertModel("teams", insertModel, "ON CONFLICT (id) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build insert team query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert team %d: %w", item.ID, err)
		}
	}

	return nil
}
