package fixture

import (
	"fmt"
	"strings"
	"time"
)

// Provider short status codes, as delivered on the fixture feed.
const (
	StatusNotStarted = "NS"
	StatusFullTime   = "FT"
	StatusPostponed  = "PST"
	StatusCancelled  = "CANC"
	StatusAbandoned  = "ABD"
)

// Fixture represents one scheduled match, keyed by the provider's fixture id.
type Fixture struct {
	ID                int64
	Kickoff           time.Time
	LeagueID          int64
	HomeTeamID        int64
	AwayTeamID        int64
	Referee           string
	Venue             string
	Status            string
	HeadToHead        []byte
	SnapshotProcessed bool
}

func (f Fixture) Validate() error {
	if f.ID == 0 {
		return fmt.Errorf("fixture id is required")
	}
	if f.LeagueID == 0 {
		return fmt.Errorf("fixture league id is required")
	}
	if f.HomeTeamID == 0 || f.AwayTeamID == 0 {
		return fmt.Errorf("fixture team ids are required")
	}

	return nil
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusNotStarted
	}
	return status
}

func IsLiveStatus(status string) bool {
	switch NormalizeStatus(status) {
	case "1H", "HT", "2H", "ET", "BT", "P", "LIVE":
		return true
	default:
		return false
	}
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFullTime, "AET", "PEN", "AWD", "WO":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusPostponed, StatusCancelled, StatusAbandoned, "SUSP", "INT":
		return true
	default:
		return false
	}
}
