package repositories

import (
	"context"
)

// UnitOfWork executes a function within a single transaction. Repositories
// called with the context it passes join that transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
