package usecase

import "context"

// PayloadStatus tags how a provider response decoded. Decoding happens once at
// the fetch boundary; sync code switches on the tag instead of re-validating
// payload shape.
type PayloadStatus int

const (
	PayloadOK PayloadStatus = iota
	// PayloadEmpty is a well-formed response carrying zero rows.
	PayloadEmpty
	// PayloadMalformed means the response body was missing or not the expected
	// list shape. The provider usually self-corrects, so callers retry.
	PayloadMalformed
	// PayloadMissingTable is standings-specific: the outer response decoded
	// but the nested standings table is absent. Retrying never fixes it.
	PayloadMissingTable
)

func (s PayloadStatus) String() string {
	switch s {
	case PayloadOK:
		return "ok"
	case PayloadEmpty:
		return "empty"
	case PayloadMalformed:
		return "malformed"
	case PayloadMissingTable:
		return "missing_table"
	default:
		return "unknown"
	}
}

// ExternalLeague is one league row from the provider's league list.
type ExternalLeague struct {
	ID          int64
	Name        string
	Logo        string
	Type        string
	CountryName string
	CountryCode string
	CountryFlag string
	Season      int
}

// ExternalTeam is one team row from the provider's team list.
type ExternalTeam struct {
	ID       int64
	Name     string
	Code     string
	Logo     string
	National bool
}

// ExternalStandingRow is one table row from the provider's standings payload.
// Missing nested stats decode to zero values; Home and Away carry the raw
// per-venue stat objects for snapshot storage.
type ExternalStandingRow struct {
	Rank           int
	TeamID         int64
	Points         int
	GoalsDiff      int
	Played         int
	Wins           int
	Draws          int
	Losses         int
	GoalsFor       int
	GoalsAgainst   int
	Form           string
	Home           []byte
	Away           []byte
}

// ExternalFixture is one fixture row from the provider's fixture list.
type ExternalFixture struct {
	ID         int64
	Date       string
	LeagueID   int64
	HomeTeamID int64
	AwayTeamID int64
	Referee    string
	Venue      string
	Status     string
}

type LeagueListResult struct {
	Status  PayloadStatus
	Leagues []ExternalLeague
}

type TeamListResult struct {
	Status PayloadStatus
	Teams  []ExternalTeam
}

type StandingsResult struct {
	Status    PayloadStatus
	RoundName string
	Rows      []ExternalStandingRow
}

type FixtureListResult struct {
	Status   PayloadStatus
	Fixtures []ExternalFixture
}

// DataSource is the remote provider consumed by sync services. Transport-class
// failures come back as errors wrapping ErrDependencyUnavailable; shape
// problems come back as a non-OK PayloadStatus, never an error.
type DataSource interface {
	FetchLeagues(ctx context.Context) (LeagueListResult, error)
	FetchTeams(ctx context.Context, countryName string) (TeamListResult, error)
	FetchStandings(ctx context.Context, leagueID int64, season int) (StandingsResult, error)
	FetchFixtures(ctx context.Context, leagueID int64, season int) (FixtureListResult, error)
}
