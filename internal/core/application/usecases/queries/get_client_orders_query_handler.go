package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetClientOrdersQueryHandler retrieves a client's order history from the database.
//
// Example:
//
//	handler := NewGetClientOrdersQueryHandler(db)
//	query, _ := NewGetClientOrdersQuery(clientID)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get client orders: %v", err)
//	    return err
//	}
type GetClientOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetClientOrdersQueryHandler creates a handler for client order history queries.
// Requires a GORM database connection for query execution.
func NewGetClientOrdersQueryHandler(db *gorm.DB) GetClientOrdersQueryHandler {
	return GetClientOrdersQueryHandler{db: db}
}

// Handle executes the query and returns all orders of the client,
// newest first. An empty slice means the client has no orders.
func (h GetClientOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetClientOrdersQuery,
) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]OrderResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			client_id,
			status,
			items,
			total_price,
			created_at,
			updated_at,
			version
		FROM orders
		WHERE client_id = ?
		ORDER BY created_at DESC
	`, query.ClientID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		resp, scanErr := scanOrderResponse(rows)
		if scanErr != nil {
			return nil, scanErr
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
