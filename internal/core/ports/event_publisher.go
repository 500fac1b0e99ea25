package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/verification"
)

// OrderStatusChangedEvent is published after an order moves to a new
// canonical status.
type OrderStatusChangedEvent struct {
	OrderID    kernel.UUID
	FromStatus order.Status
	ToStatus   order.Status
}

// VerificationDecidedEvent is published after a verification request is
// approved or rejected, including by the expiry sweep.
type VerificationDecidedEvent struct {
	RequestID kernel.UUID
	OrderID   kernel.UUID
	Status    verification.Status
	Reason    string
}

// OrderEventPublisher publishes integration events to the message broker.
// Publishing happens after the owning transaction commits; a publish failure
// is logged by the caller and never unwinds committed state.
type OrderEventPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, event OrderStatusChangedEvent) error
	PublishVerificationDecided(ctx context.Context, event VerificationDecidedEvent) error
}
