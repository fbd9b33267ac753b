package history

import "context"

// Repository is append-only: there is no update or delete.
type Repository interface {
	Append(ctx context.Context, e Entry) (Entry, error)
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}
