package postgres

import (
	"encoding/json"
	"time"
)

type standingSnapshotTableModel struct {
	ID             int64           `db:"id"`
	LeagueID       int64           `db:"league_id"`
	Season         int             `db:"season"`
	RoundName      string          `db:"round_name"`
	Rank           int             `db:"rank"`
	TeamID         int64           `db:"team_id"`
	Points         int             `db:"points"`
	GoalsFor       int             `db:"goals_for"`
	GoalsAgainst   int             `db:"goals_against"`
	GoalDifference int             `db:"goal_difference"`
	MatchesPlayed  int             `db:"matches_played"`
	Wins           int             `db:"wins"`
	Draws          int             `db:"draws"`
	Losses         int             `db:"losses"`
	LastFive       string          `db:"last_five"`
	HomeStat       json.RawMessage `db:"home_stat"`
	AwayStat       json.RawMessage `db:"away_stat"`
	CreatedAt      time.Time       `db:"created_at"`
}

type standingSnapshotInsertModel struct {
	LeagueID       int64           `db:"league_id"`
	Season         int             `db:"season"`
	RoundName      string          `db:"round_name"`
	Rank           int             `db:"rank"`
	TeamID         int64           `db:"team_id"`
	Points         int             `db:"points"`
	GoalsFor       int             `db:"goals_for"`
	GoalsAgainst   int             `db:"goals_against"`
	GoalDifference int             `db:"goal_difference"`
	MatchesPlayed  int             `db:"matches_played"`
	Wins           int             `db:"wins"`
	Draws          int             `db:"draws"`
	Losses         int             `db:"losses"`
	LastFive       string          `db:"last_five"`
	HomeStat       json.RawMessage `db:"home_stat"`
	AwayStat       json.RawMessage `db:"away_stat"`
}
