package fixture

import "context"

// Repository describes fixture persistence needs from use cases.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID int64) ([]Fixture, error)
	InsertIfAbsent(ctx context.Context, fixtures []Fixture) error
	MarkSnapshotProcessed(ctx context.Context, fixtureID int64) error
}
