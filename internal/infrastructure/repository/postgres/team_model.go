package postgres

import "time"

type teamTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	ShortName string    `db:"short_name"`
	Logo      string    `db:"logo"`
	CountryID int64     `db:"country_id"`
	National  bool      `db:"national"`
	CreatedAt time.Time `db:"created_at"`
}

type teamInsertModel struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	ShortName string `db:"short_name"`
	Logo      string `db:"logo"`
	CountryID int64  `db:"country_id"`
	National  bool   `db:"national"`
}
