package commands

import (
	"context"
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/rider"
)

// AssignOrderCommandHandler runs the assignment workflow.
//
// The workflow is a short saga: validate the rider is assignable, move the
// order to its assignment state, record the order in the rider's assigned
// set, and release the previous rider on reassignment - all inside one
// transaction, so a failure at any step rolls back every prior step. The
// rider is notified on the app and sms channels only after the transaction
// commits; a notification failure never unwinds the assignment.
type AssignOrderCommandHandler struct {
	uowFactory AssignmentUoWFactory
	notifier   Notifier
	logger     *slog.Logger
}

// NewAssignOrderCommandHandler creates a handler for order assignment
// operations.
func NewAssignOrderCommandHandler(
	uowFactory AssignmentUoWFactory,
	notifier Notifier,
	logger *slog.Logger,
) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "assign-order"),
	}
}

// Handle processes the assignment command.
// Returns rider.ErrRiderNotEligible when the rider is inactive or not
// approved; domain validation errors when the order cannot enter an
// assignment state.
func (h AssignOrderCommandHandler) Handle(ctx context.Context, command AssignOrderCommand) error {
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

	ridersRepo := uow.RiderRepository()
	ordersRepo := uow.OrderRepository()

	assignee, err := ridersRepo.Get(ctx, command.RiderID())
	if err != nil {
		return err
	}
	if !assignee.CanTakeAssignment() {
		return rider.ErrRiderNotEligible
	}

	aggregate, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	previousRiderID := aggregate.Rider()

	if err = aggregate.AssignRider(command.RiderID()); err != nil {
		return err
	}
	if command.VendorID() != nil {
		if err = aggregate.AssignVendor(*command.VendorID()); err != nil {
			return err
		}
	}

	if err = assignee.AcceptOrder(aggregate.ID()); err != nil {
		return err
	}

	if previousRiderID != nil && !previousRiderID.IsEqual(command.RiderID()) {
		previousRider, getErr := ridersRepo.Get(ctx, *previousRiderID)
		if getErr != nil {
			return getErr
		}
		if err = previousRider.ReleaseOrder(aggregate.ID()); err != nil {
			return err
		}
		if err = ridersRepo.Update(ctx, previousRider); err != nil {
			return err
		}
	}

	if err = ordersRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = ridersRepo.Update(ctx, assignee); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.notifier.Notify(ctx, NotificationRequest{
		RecipientID:   assignee.ID(),
		RecipientKind: notification.RecipientRider,
		Contact:       assignee.Contact(),
		Title:         "New assignment",
		Message:       fmt.Sprintf("Order %s has been assigned to you", aggregate.ID().String()),
		Kind:          "assignment",
		Channels:      []notification.Channel{notification.ChannelApp, notification.ChannelSMS},
	}); err != nil {
		h.logger.Error("failed to notify assigned rider",
			"orderId", aggregate.ID().String(),
			"riderId", assignee.ID().String(),
			"error", err)
	}

	return nil
}
