package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchdaylabs/football-sync/internal/domain/country"
	qb "github.com/matchdaylabs/football-sync/internal/platform/querybuilder"
)

type CountryRepository struct {
	db *sqlx.DB
}

func NewCountryRepository(db *sqlx.DB) *CountryRepository {
	return &CountryRepository{db: db}
}

func (r *CountryRepository) ListNames(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("name").From("countries").
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list country names query: %w", err)
	}

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, args...); err != nil {
		return nil, fmt.Errorf("list country names: %w", err)
	}

	return names, nil
}

func (r *CountryRepository) GetByNames(ctx context.Context, names []string) (map[string]country.Country, error) {
	if len(names) == 0 {
		return map[string]country.Country{}, nil
	}

	values := make([]any, 0, len(names))
	for _, name := range names {
		values = append(values, name)
	}

	query, args, err := qb.Select("*").From("countries").
		Where(qb.In("name", values)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select countries by name query: %w", err)
	}

	var rows []countryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select countries by name: %w", err)
	}

	out := make(map[string]country.Country, len(rows))
	for _, row := range rows {
		out[row.Name] = country.Country{
			ID:      row.ID,
			Name:    row.Name,
			Code:    row.Code,
			FlagURL: row.FlagURL,
		}
	}

	return out, nil
}

func (r *CountryRepository) InsertIfAbsent(ctx context.Context, countries []country.Country) error {
	for _, item := range countries {
		insertModel := countryInsertModel{
			Name:    item.Name,
			Code:    item.Code,
			FlagURL: item.FlagURL,
		}
		query, args, err := qb.InsertModel("countries", insertModel, "ON CONFLICT (name) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build insert country query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert country %s: %w", item.Name, err)
		}
	}

	return nil
}
