package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]Team, error)
	InsertIfAbsent(ctx context.Context, teams []Team) error
}
