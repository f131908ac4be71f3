package postgres

import "time"

type countryTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Code      string    `db:"code"`
	FlagURL   string    `db:"flag_url"`
	CreatedAt time.Time `db:"created_at"`
}

type countryInsertModel struct {
	Name    string `db:"name"`
	Code    string `db:"code"`
	FlagURL string `db:"flag_url"`
}
