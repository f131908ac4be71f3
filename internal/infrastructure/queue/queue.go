package queue

import "encoding/json"

// Task names carried on the queue.
const (
	TaskSyncTeams     = "sync_teams_batch"
	TaskSyncStandings = "sync_standings_batch"
)

// Envelope is the wire format of one unit of work.
type Envelope struct {
	Task    string          `json:"task" validate:"required"`
	Attempt int             `json:"attempt" validate:"gte=0"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// TeamBatchPayload is the payload for TaskSyncTeams.
type TeamBatchPayload struct {
	Countries []string `json:"countries" validate:"required,min=1,dive,required"`
}

// StandingsBatchPayload is the payload for TaskSyncStandings.
type StandingsBatchPayload struct {
	LeagueIDs []int64 `json:"league_ids" validate:"required,min=1,dive,gt=0"`
}
