package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
)

// RiderRepository defines the persistence contract for rider aggregates.
type RiderRepository interface {
	// Add persists a new rider aggregate to storage.
	Add(ctx context.Context, aggregate *rider.Rider) error

	// Update persists changes to an existing rider aggregate.
	Update(ctx context.Context, aggregate *rider.Rider) error

	// Get retrieves a rider aggregate by its unique identifier, including
	// the set of order ids currently assigned to them.
	Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error)

	// GetAllActive retrieves all riders marked active, regardless of their
	// verification state. Callers filter on CanTakeAssignment when they need
	// assignable riders only.
	GetAllActive(ctx context.Context) ([]*rider.Rider, error)
}
