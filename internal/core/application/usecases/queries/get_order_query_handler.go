package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves a single order from the database.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db)
//	query, _ := NewGetOrderQuery(orderID)
//
//	resp, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // no such order
//	}
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single order lookups.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup and returns the order as stored.
// Returns an error wrapping errs.ErrObjectNotFound when the order does not exist.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
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
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	resp, err := scanOrderResponse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID())
	}
	if err != nil {
		return OrderResponse{}, err
	}

	return resp, nil
}

// orderItemRow mirrors the JSONB shape of the orders.items column.
type orderItemRow struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrderResponse(row rowScanner) (OrderResponse, error) {
	var (
		id         uuid.UUID
		clientID   uuid.UUID
		status     string
		itemsJSON  []byte
		totalPrice decimal.Decimal
		createdAt  time.Time
		updatedAt  time.Time
		version    int64
	)

	err := row.Scan(
		&id,
		&clientID,
		&status,
		&itemsJSON,
		&totalPrice,
		&createdAt,
		&updatedAt,
		&version,
	)
	if err != nil {
		return OrderResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return OrderResponse{}, err
	}

	ownerID, err := kernel.UUIDFromBytes(clientID[:])
	if err != nil {
		return OrderResponse{}, err
	}

	var itemRows []orderItemRow
	if err = json.Unmarshal(itemsJSON, &itemRows); err != nil {
		return OrderResponse{}, err
	}

	items := make([]OrderItemResponse, 0, len(itemRows))
	for _, itemRow := range itemRows {
		productID, idErr := kernel.UUIDFromBytes(itemRow.ProductID[:])
		if idErr != nil {
			return OrderResponse{}, idErr
		}

		items = append(items, OrderItemResponse{
			ProductID:   productID,
			ProductName: itemRow.ProductName,
			Quantity:    itemRow.Quantity,
			UnitPrice:   itemRow.UnitPrice,
		})
	}

	return OrderResponse{
		ID:         orderID,
		ClientID:   ownerID,
		Status:     status,
		Items:      items,
		TotalPrice: totalPrice,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
		Version:    version,
	}, nil
}
