package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/ports"
)

// AdvanceOrderStatusCommandHandler applies lifecycle transitions to orders.
// The order aggregate decides whether the move is legal; the handler persists
// the result and publishes a status-changed event after the transaction
// commits. A publish failure is logged, never returned - the transition has
// already happened. A terminal transition also releases the order from the
// assigned rider, in the same transaction.
type AdvanceOrderStatusCommandHandler struct {
	uowFactory AssignmentUoWFactory
	publisher  ports.OrderEventPublisher
	logger     *slog.Logger
}

// NewAdvanceOrderStatusCommandHandler creates a handler for order status
// transitions.
func NewAdvanceOrderStatusCommandHandler(
	uowFactory AssignmentUoWFactory,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) AdvanceOrderStatusCommandHandler {
	return AdvanceOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "advance-order-status"),
	}
}

// Handle loads the order, applies the transition, and persists it within a
// transaction.
func (h AdvanceOrderStatusCommandHandler) Handle(ctx context.Context, command AdvanceOrderStatusCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	aggregate, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	fromStatus := aggregate.Status()
	assignedRider := aggregate.Rider()
	if err = aggregate.AdvanceTo(command.Target()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	// A terminal order no longer occupies the rider who carried it.
	if aggregate.Status().IsTerminal() && assignedRider != nil {
		ridersRepo := uow.RiderRepository()

		carrier, carrierErr := ridersRepo.Get(ctx, *assignedRider)
		if carrierErr != nil {
			return carrierErr
		}
		if err = carrier.ReleaseOrder(aggregate.ID()); err != nil {
			return err
		}
		if err = ridersRepo.Update(ctx, carrier); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	event := ports.OrderStatusChangedEvent{
		OrderID:    aggregate.ID(),
		FromStatus: fromStatus,
		ToStatus:   aggregate.Status(),
	}
	if err = h.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		h.logger.Error("failed to publish status change",
			"orderId", aggregate.ID().String(), "error", err)
	}

	return nil
}
