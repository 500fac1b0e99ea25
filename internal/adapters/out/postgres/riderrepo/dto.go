// Package riderrepo provides data transfer objects and mapping functions for
// rider persistence. Riders carry an optional last-known location, a
// verification state, and the set of orders currently assigned to them.
package riderrepo

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"

	"github.com/google/uuid"
)

// RiderDTO represents the database structure for persisting rider aggregates.
// The location columns are nullable because a rider may never have reported
// one. Assigned order ids live in a jsonb column so the aggregate persists
// atomically in a single row.
type RiderDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string
	Contact        string
	Latitude       *float64
	Longitude      *float64
	LocationSeenAt *time.Time
	IsActive       bool   `gorm:"index"`
	Verification   string `gorm:"index"`
	AssignedOrders string `gorm:"type:jsonb"`
}

// TableName specifies the database table name for rider entities.
func (RiderDTO) TableName() string {
	return "riders"
}

// marshalAssignedOrders serializes assigned order ids into the jsonb column
// format.
func marshalAssignedOrders(orderIDs []kernel.UUID) (string, error) {
	ids := make([]uuid.UUID, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		ids = append(ids, orderID.Bytes())
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// unmarshalAssignedOrders reconstructs assigned order ids from the jsonb
// column format.
func unmarshalAssignedOrders(raw string) ([]kernel.UUID, error) {
	var ids []uuid.UUID
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}

	orderIDs := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		orderID, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		orderIDs = append(orderIDs, orderID)
	}
	return orderIDs, nil
}

// fromDomain converts a rider domain aggregate to its database
// representation.
func fromDomain(aggregate *rider.Rider) (RiderDTO, error) {
	assigned, err := marshalAssignedOrders(aggregate.AssignedOrders())
	if err != nil {
		return RiderDTO{}, err
	}

	var latitude, longitude *float64
	if location := aggregate.Location(); location != nil {
		lat := location.Latitude()
		lng := location.Longitude()
		latitude = &lat
		longitude = &lng
	}

	return RiderDTO{
		ID:             aggregate.ID().Bytes(),
		Name:           aggregate.Name(),
		Contact:        aggregate.Contact(),
		Latitude:       latitude,
		Longitude:      longitude,
		LocationSeenAt: aggregate.LocationSeenAt(),
		IsActive:       aggregate.IsActive(),
		Verification:   string(aggregate.Verification()),
		AssignedOrders: assigned,
	}, nil
}

// toDomain converts a database DTO to a rider domain aggregate using
// RestoreRider.
func toDomain(dto RiderDTO) (*rider.Rider, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoLocation
	if dto.Latitude != nil && dto.Longitude != nil {
		loc, locErr := kernel.NewGeoLocation(*dto.Latitude, *dto.Longitude)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	assigned, err := unmarshalAssignedOrders(dto.AssignedOrders)
	if err != nil {
		return nil, err
	}

	return rider.RestoreRider(
		id,
		dto.Name,
		dto.Contact,
		location,
		dto.LocationSeenAt,
		dto.IsActive,
		rider.VerificationState(dto.Verification),
		assigned,
	)
}
