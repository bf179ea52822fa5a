package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Status writes go through an optimistic-concurrency compare-and-swap: there
// is no blind update, so two writers racing on the same order resolve to
// exactly one winner at the storage layer.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns an error wrapping errs.ErrObjectNotFound if the order is absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateWithVersion persists the aggregate's status and version guarded
	// by a compare-and-swap on expectedVersion (the version read at load
	// time). If the stored version has since changed, it returns an error
	// wrapping errs.ErrConcurrencyConflict and writes nothing.
	UpdateWithVersion(ctx context.Context, aggregate *order.Order, expectedVersion int64) error

	// FindActive retrieves all orders whose status is not terminal
	// (not Delivered and not Cancelled). Used by the reconciliation sweep.
	FindActive(ctx context.Context) ([]*order.Order, error)

	// FindByClient retrieves all orders owned by the given client.
	FindByClient(ctx context.Context, clientID kernel.UUID) ([]*order.Order, error)
}
