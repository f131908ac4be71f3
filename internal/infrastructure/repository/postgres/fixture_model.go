package postgres

import (
	"encoding/json"
	"time"
)

type fixtureTableModel struct {
	ID                int64           `db:"id"`
	Kickoff           time.Time       `db:"kickoff"`
	LeagueID          int64           `db:"league_id"`
	HomeTeamID        int64           `db:"home_team_id"`
	AwayTeamID        int64           `db:"away_team_id"`
	Referee           string          `db:"referee"`
	Venue             string          `db:"venue"`
	Status            string          `db:"status"`
	HeadToHead        json.RawMessage `db:"head_to_head"`
	SnapshotProcessed bool            `db:"snapshot_processed"`
	CreatedAt         time.Time       `db:"created_at"`
}

type fixtureInsertModel struct {
	ID                int64           `db:"id"`
	Kickoff           time.Time       `db:"kickoff"`
	LeagueID          int64           `db:"league_id"`
	HomeTeamID        int64           `db:"home_team_id"`
	AwayTeamID        int64           `db:"away_team_id"`
	Referee           string          `db:"referee"`
	Venue             string          `db:"venue"`
	Status            string          `db:"status"`
	HeadToHead        json.RawMessage `db:"head_to_head"`
	SnapshotProcessed bool            `db:"snapshot_processed"`
}
