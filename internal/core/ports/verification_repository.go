package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/verification"
)

// VerificationRepository defines the persistence contract for verification
// request aggregates.
type VerificationRepository interface {
	// Add persists a new verification request to storage.
	Add(ctx context.Context, aggregate *verification.Request) error

	// Update persists changes to an existing verification request.
	Update(ctx context.Context, aggregate *verification.Request) error

	// Get retrieves a verification request by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*verification.Request, error)

	// GetPendingByOrder retrieves the pending request for the given order,
	// or an ObjectNotFound error when none exists. At most one pending
	// request exists per order.
	GetPendingByOrder(ctx context.Context, orderID kernel.UUID) (*verification.Request, error)

	// GetAllPendingExpiredBefore retrieves pending requests whose decision
	// deadline passed before the given instant. Used by the expiry sweep.
	GetAllPendingExpiredBefore(ctx context.Context, deadline time.Time) ([]*verification.Request, error)
}
