package standing

import "context"

type Repository interface {
	ListBySeason(ctx context.Context, leagueID int64, season int) ([]Snapshot, error)
	// ReplaceBySeason deletes every snapshot for (leagueID, season) and inserts
	// the given rows inside one transaction.
	ReplaceBySeason(ctx context.Context, leagueID int64, season int, snapshots []Snapshot) error
}
