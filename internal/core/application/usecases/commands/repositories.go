// Package commands contains the write-side operations of the service: order
// creation and status transitions. Each operation is a guarded command value
// plus a handler that owns validation, the transaction, and side effects.
package commands

import (
	"context"

	"orderflow/internal/core/ports"
)

// Narrow unit of work views consumed by the handlers in this package. They
// mirror ports.UnitOfWork so any transaction implementation can be adapted
// without the handlers importing adapter types.
type (
	// TxManager drives the transaction lifecycle of one command.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory yields the order repository bound to the transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW is the transaction scope a command handler works in.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   repo := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates one OrderUoW per handled command.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)
