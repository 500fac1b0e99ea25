// Package verificationrepo provides data transfer objects and mapping
// functions for verification request persistence. A request snapshots the
// original and proposed item lists at proposal time; both lists live in jsonb
// columns so the aggregate persists atomically in a single row.
package verificationrepo

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/verification"

	"github.com/google/uuid"
)

// RequestDTO represents the database structure for persisting verification
// request aggregates. The price_delta column is denormalized from the item
// snapshots for the pending-request read model; the status and expiry columns
// are indexed for the expiry sweep.
type RequestDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;index"`
	Status        string    `gorm:"index"`
	OriginalItems string    `gorm:"type:jsonb"`
	ProposedItems string    `gorm:"type:jsonb"`
	PriceDelta    float64
	Note          string
	Reason        string
	CreatedAt     time.Time
	ExpiresAt     time.Time `gorm:"index"`
}

// TableName specifies the database table name for verification request
// entities.
func (RequestDTO) TableName() string {
	return "verification_requests"
}

// itemDTO is the jsonb shape of a single item line snapshot.
type itemDTO struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// marshalItems serializes an item snapshot into the jsonb column format.
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

// unmarshalItems reconstructs an item snapshot from the jsonb column format.
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

// fromDomain converts a verification request aggregate to its database
// representation.
func fromDomain(aggregate *verification.Request) (RequestDTO, error) {
	original, err := marshalItems(aggregate.OriginalItems())
	if err != nil {
		return RequestDTO{}, err
	}

	proposed, err := marshalItems(aggregate.ProposedItems())
	if err != nil {
		return RequestDTO{}, err
	}

	return RequestDTO{
		ID:            aggregate.ID().Bytes(),
		OrderID:       aggregate.OrderID().Bytes(),
		Status:        string(aggregate.Status()),
		OriginalItems: original,
		ProposedItems: proposed,
		PriceDelta:    aggregate.PriceChange().Delta,
		Note:          aggregate.Note(),
		Reason:        aggregate.Reason(),
		CreatedAt:     aggregate.CreatedAt(),
		ExpiresAt:     aggregate.ExpiresAt(),
	}, nil
}

// toDomain converts a database DTO to a verification request aggregate using
// RestoreRequest. The price change is recomputed from the item snapshots.
func toDomain(dto RequestDTO) (*verification.Request, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	original, err := unmarshalItems(dto.OriginalItems)
	if err != nil {
		return nil, err
	}

	proposed, err := unmarshalItems(dto.ProposedItems)
	if err != nil {
		return nil, err
	}

	return verification.RestoreRequest(
		id,
		orderID,
		original,
		proposed,
		verification.Status(dto.Status),
		dto.Note,
		dto.Reason,
		dto.CreatedAt,
		dto.ExpiresAt,
	)
}
