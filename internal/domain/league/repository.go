package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	ListIDs(ctx context.Context) ([]int64, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]League, error)
	InsertIfAbsent(ctx context.Context, leagues []League) error
}
