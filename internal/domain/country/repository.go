package country

import "context"

// Repository describes country persistence needs from use cases.
type Repository interface {
	ListNames(ctx context.Context) ([]string, error)
	GetByNames(ctx context.Context, names []string) (map[string]Country, error)
	InsertIfAbsent(ctx context.Context, countries []Country) error
}
