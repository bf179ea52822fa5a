package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetClientOrdersQueryIsNotConstructed = errors.New(
		"GetClientOrdersQuery must be created via NewGetClientOrdersQuery constructor",
	)
)

// GetClientOrdersQuery retrieves all orders placed by a single client.
// Returns the full order history, terminal orders included.
//
// Example:
//
//	query, err := NewGetClientOrdersQuery(clientID)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetClientOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get client orders: %w", err)
//	}
//
//	fmt.Printf("Client has %d orders\n", len(orders))
type GetClientOrdersQuery struct {
	clientID kernel.UUID
	guard    guard.ConstructorGuard
}

// NewGetClientOrdersQuery creates a query for a client's order history.
// Returns a validation error when the client ID is empty.
func NewGetClientOrdersQuery(clientID kernel.UUID) (GetClientOrdersQuery, error) {
	query := GetClientOrdersQuery{
		clientID: clientID,
		guard:    guard.NewConstructorGuard(),
	}

	if err := clientID.Validate(); err != nil {
		return GetClientOrdersQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetClientOrdersQueryIsNotConstructed if validation fails.
func (q GetClientOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetClientOrdersQueryIsNotConstructed)
}

// ClientID returns the identifier of the client whose orders are requested.
func (q GetClientOrdersQuery) ClientID() kernel.UUID {
	return q.clientID
}
