// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. This package implements the repository pattern for the
// order domain aggregate, handling the conversion between domain entities and
// database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with proper
// indexing for efficient querying by status and rider assignment. The item
// lines live in a jsonb column so the aggregate persists atomically in a
// single row.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID  `gorm:"type:uuid;index"`
	RiderID         *uuid.UUID `gorm:"type:uuid;index"`
	VendorID        *uuid.UUID `gorm:"type:uuid"`
	Status          string     `gorm:"index"`
	Items           string     `gorm:"type:jsonb"`
	PickupLatitude  float64
	PickupLongitude float64
	ScheduledAt     *time.Time
	DeliveredAt     *time.Time
	Discount        float64
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// itemDTO is the jsonb shape of a single order item line.
type itemDTO struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// marshalItems serializes item lines into the jsonb column format.
func marshalItems(items []order.Item) (string, error) {
	dtos := make([]itemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, itemDTO{
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}

	raw, err := json.Marshal(dtos)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// unmarshalItems reconstructs item lines from the jsonb column format.
func unmarshalItems(raw string) ([]order.Item, error) {
	var dtos []itemDTO
	if err := json.Unmarshal([]byte(raw), &dtos); err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dtos))
	for _, dto := range dtos {
		item, err := order.NewItem(dto.Name, dto.Quantity, dto.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// fromDomain converts an order domain aggregate to its database
// representation. Maps all order attributes including the optional rider and
// vendor assignments.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	items, err := marshalItems(aggregate.Items())
	if err != nil {
		return OrderDTO{}, err
	}

	var riderID *uuid.UUID
	if id := aggregate.Rider(); id != nil {
		raw := id.Bytes()
		riderID = &raw
	}

	var vendorID *uuid.UUID
	if id := aggregate.Vendor(); id != nil {
		raw := id.Bytes()
		vendorID = &raw
	}

	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		CustomerID:      aggregate.CustomerID().Bytes(),
		RiderID:         riderID,
		VendorID:        vendorID,
		Status:          aggregate.Status().String(),
		Items:           items,
		PickupLatitude:  aggregate.PickupLocation().Latitude(),
		PickupLongitude: aggregate.PickupLocation().Longitude(),
		ScheduledAt:     aggregate.ScheduledAt(),
		DeliveredAt:     aggregate.DeliveredAt(),
		Discount:        aggregate.Discount(),
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status, item lines, and
// assignments using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var riderID *kernel.UUID
	if dto.RiderID != nil {
		rID, riderErr := kernel.UUIDFromBytes((*dto.RiderID)[:])
		if riderErr != nil {
			return nil, riderErr
		}
		riderID = &rID
	}

	var vendorID *kernel.UUID
	if dto.VendorID != nil {
		vID, vendorErr := kernel.UUIDFromBytes((*dto.VendorID)[:])
		if vendorErr != nil {
			return nil, vendorErr
		}
		vendorID = &vID
	}

	items, err := unmarshalItems(dto.Items)
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewGeoLocation(dto.PickupLatitude, dto.PickupLongitude)
	if err != nil {
		return nil, err
	}

	// Stored statuses are canonical, but rows written by the legacy system
	// carry its vocabulary; translate on read.
	return order.RestoreOrder(
		id,
		customerID,
		riderID,
		vendorID,
		order.Normalize(dto.Status),
		items,
		pickup,
		dto.ScheduledAt,
		dto.DeliveredAt,
		dto.Discount,
	)
}
