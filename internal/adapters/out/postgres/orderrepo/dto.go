// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is stored as its string tag and items as a JSONB document, so the
// table stays readable for ad hoc queries while the aggregate stays whole.
type OrderDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClientID   uuid.UUID       `gorm:"type:uuid;index"`
	Status     string          `gorm:"type:varchar(16);index"`
	Items      ItemsDTO        `gorm:"type:jsonb"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(14,2)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents a single order line within the JSONB items column.
type ItemDTO struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// ItemsDTO stores the order lines as a single JSONB document.
type ItemsDTO []ItemDTO

// Value serializes the items for storage in the jsonb column.
func (items ItemsDTO) Value() (driver.Value, error) {
	return json.Marshal(items)
}

// Scan deserializes the jsonb column back into items.
func (items *ItemsDTO) Scan(src any) error {
	switch value := src.(type) {
	case []byte:
		return json.Unmarshal(value, items)
	case string:
		return json.Unmarshal([]byte(value), items)
	default:
		return fmt.Errorf("unsupported items column type %T", src)
	}
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	domainItems := aggregate.Items()
	items := make(ItemsDTO, 0, len(domainItems))
	for _, item := range domainItems {
		items = append(items, ItemDTO{
			ProductID:   item.ProductID().Bytes(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice(),
		})
	}

	return OrderDTO{
		ID:         aggregate.ID().Bytes(),
		ClientID:   aggregate.ClientID().Bytes(),
		Status:     aggregate.Status().String(),
		Items:      items,
		TotalPrice: aggregate.TotalPrice(),
		CreatedAt:  aggregate.CreatedAt(),
		UpdatedAt:  aggregate.UpdatedAt(),
		Version:    aggregate.Version(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status and version using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		productID, idErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if idErr != nil {
			return nil, idErr
		}

		item, itemErr := order.NewItem(productID, itemDTO.ProductName, itemDTO.Quantity, itemDTO.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}

		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		clientID,
		items,
		status,
		dto.TotalPrice,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.Version,
	)
}
