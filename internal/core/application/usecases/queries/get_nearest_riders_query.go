// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetNearestRidersQueryIsNotConstructed = errors.New(
	"GetNearestRidersQuery must be created via NewGetNearestRidersQuery constructor",
)

// GetNearestRidersQuery retrieves assignable riders ranked by distance to a
// pickup location. Riders without a known location rank last; stale
// locations still rank by distance and carry a freshness label so the
// dispatcher can judge them.
//
// Example:
//
//	query, err := NewGetNearestRidersQuery(28.40, 77.00, 10)
//	if err != nil {
//	    return fmt.Errorf("invalid pickup location: %w", err)
//	}
//	riders, err := handler.Handle(ctx, query)
type GetNearestRidersQuery struct { //nolint:recvcheck //using for validation
	pickup kernel.GeoLocation
	limit  int

	guard guard.ConstructorGuard
}

// NewGetNearestRidersQuery creates a query for riders near the pickup
// coordinates. limit caps the result size; pass 0 for no cap.
func NewGetNearestRidersQuery(latitude, longitude float64, limit int) (GetNearestRidersQuery, error) {
	ridersQuery := GetNearestRidersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ridersQuery.setPickup(latitude, longitude),
		ridersQuery.setLimit(limit),
	); err != nil {
		return GetNearestRidersQuery{}, err
	}

	return ridersQuery, nil
}

// Validate ensures the query was created through the constructor.
func (q GetNearestRidersQuery) Validate() error {
	return q.guard.Validate(ErrGetNearestRidersQueryIsNotConstructed)
}

// Pickup returns the pickup location riders are ranked against.
func (q GetNearestRidersQuery) Pickup() kernel.GeoLocation {
	return q.pickup
}

// Limit returns the result cap, 0 for unlimited.
func (q GetNearestRidersQuery) Limit() int {
	return q.limit
}

func (q *GetNearestRidersQuery) setPickup(latitude, longitude float64) error {
	pickup, err := kernel.NewGeoLocation(latitude, longitude)
	if err != nil {
		return err
	}

	q.pickup = pickup
	return nil
}

func (q *GetNearestRidersQuery) setLimit(limit int) error {
	if limit < 0 {
		return errs.NewValueIsInvalidError("limit")
	}

	q.limit = limit
	return nil
}

// GetNearestRidersQueryResponse is one ranked rider in the read model.
type GetNearestRidersQueryResponse struct {
	ID      kernel.UUID
	Name    string
	Contact string
	// DistanceKm is nil when the rider has never reported a location.
	DistanceKm *float64
	Freshness  rider.Freshness
}
