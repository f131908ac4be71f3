package postgres

import "time"

type leagueTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Logo      string    `db:"logo"`
	Type      string    `db:"type"`
	CountryID int64     `db:"country_id"`
	Season    int       `db:"season"`
	CreatedAt time.Time `db:"created_at"`
}

type leagueInsertModel struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Logo      string `db:"logo"`
	Type      string `db:"type"`
	CountryID int64  `db:"country_id"`
	Season    int    `db:"season"`
}
