package standing

import "fmt"

// Snapshot is one league table row at a point in time. The set of rows for a
// (league, season) pair is always written whole, never merged.
type Snapshot struct {
	LeagueID       int64
	Season         int
	RoundName      string
	Rank           int
	TeamID         int64
	Points         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	MatchesPlayed  int
	Wins           int
	Draws          int
	Losses         int
	LastFive       string
	HomeStat       []byte
	AwayStat       []byte
}

func (s Snapshot) Validate() error {
	if s.LeagueID == 0 {
		return fmt.Errorf("snapshot league id is required")
	}
	if s.TeamID == 0 {
		return fmt.Errorf("snapshot team id is required")
	}
	if s.Season == 0 {
		return fmt.Errorf("snapshot season is required")
	}

	return nil
}
