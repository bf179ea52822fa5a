package ports

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/order"
)

var (
	// ErrInsufficientStock is returned by Reserve when at least one item
	// cannot be held in the requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotReserved is returned by Release when no matching reservation
	// exists for the items.
	ErrNotReserved = errors.New("no matching reservation")
)

// InventoryCoordinator is the external collaborator holding stock truth.
// Both calls block and must be invoked with a bounded context; a failure or
// timeout must prevent the enclosing order-status commit, so stock truth and
// order status never disagree.
//
// Release is required to be idempotent on the coordinator side: a transition
// may release and then lose its CAS write, in which case the release is
// treated as having already taken effect.
type InventoryCoordinator interface {
	// Reserve places a provisional hold on stock for the items.
	// Invoked at order creation; its result gates whether a CREATED order
	// exists at all.
	Reserve(ctx context.Context, items []order.Item) error

	// Release frees the reservation for the items.
	// Invoked synchronously inside a transition to CANCELLED, strictly
	// before the status write.
	Release(ctx context.Context, items []order.Item) error
}
