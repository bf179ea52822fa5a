package ports

import (
	"context"
)

// UnitOfWorkFactory hands every command its own UnitOfWork, so concurrent
// operations never share transaction state.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of one business operation. The
// caller drives the lifecycle explicitly: Begin, then repository work, then
// Commit, with Rollback deferred as the failure path.
type UnitOfWork interface {
	// Begin opens the database transaction.
	Begin(ctx context.Context) error

	// Commit finalizes the transaction. Errors when none is open.
	Commit(ctx context.Context) error

	// Rollback discards the transaction. Errors when none is open, which
	// makes a deferred Rollback after Commit harmless.
	Rollback(ctx context.Context) error

	// OrderRepository returns a repository bound to the open transaction,
	// or to the main connection when Begin was not called.
	OrderRepository() OrderRepository
}
