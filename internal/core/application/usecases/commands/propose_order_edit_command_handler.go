package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/verification"
	"dispatch/internal/pkg/errs"
)

// ConflictPolicy controls what happens when an edit is proposed for an order
// that already has a pending verification request.
type ConflictPolicy string

const (
	// ConflictPolicyReject refuses the new proposal with a conflict error.
	ConflictPolicyReject ConflictPolicy = "reject"
	// ConflictPolicySupersede closes the pending request as rejected and
	// opens the new one in its place.
	ConflictPolicySupersede ConflictPolicy = "supersede"
)

// Validate checks if the ConflictPolicy is one of the known values.
func (p ConflictPolicy) Validate() error {
	switch p {
	case ConflictPolicyReject, ConflictPolicySupersede:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("conflict policy",
			fmt.Errorf("%q is not a conflict policy", string(p)))
	}
}

// SupersededReason is recorded on a pending request closed to make room for
// a newer proposal under the supersede policy.
const SupersededReason = "superseded"

// ProposeOrderEditCommandHandler opens verification requests for proposed
// order edits. At most one pending request exists per order: a second
// proposal is rejected or supersedes the first depending on the configured
// policy. The customer is notified after the request is committed.
type ProposeOrderEditCommandHandler struct {
	uowFactory     VerificationUoWFactory
	notifier       Notifier
	conflictPolicy ConflictPolicy
	logger         *slog.Logger
}

// NewProposeOrderEditCommandHandler creates a handler for edit proposals
// with the given conflict policy.
func NewProposeOrderEditCommandHandler(
	uowFactory VerificationUoWFactory,
	notifier Notifier,
	conflictPolicy ConflictPolicy,
	logger *slog.Logger,
) (ProposeOrderEditCommandHandler, error) {
	if err := conflictPolicy.Validate(); err != nil {
		return ProposeOrderEditCommandHandler{}, err
	}

	return ProposeOrderEditCommandHandler{
		uowFactory:     uowFactory,
		notifier:       notifier,
		conflictPolicy: conflictPolicy,
		logger:         logger.With("component", "propose-order-edit"),
	}, nil
}

// Handle processes the proposal command.
// Returns a conflict error under the reject policy when a pending request
// already exists for the order; a validation error when the order is
// terminal.
func (h ProposeOrderEditCommandHandler) Handle(ctx context.Context, command ProposeOrderEditCommand) error {
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
	verificationsRepo := uow.VerificationRepository()

	aggregate, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}
	if aggregate.Status().IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to propose an edit", aggregate.Status()))
	}

	now := time.Now()

	pending, err := verificationsRepo.GetPendingByOrder(ctx, command.OrderID())
	switch {
	case err == nil:
		if h.conflictPolicy == ConflictPolicyReject {
			return errs.NewConflictErrorWithCause("verification request",
				fmt.Errorf("order %s already has a pending request", command.OrderID().String()))
		}
		if err = pending.Reject(SupersededReason, now); err != nil {
			return err
		}
		if err = verificationsRepo.Update(ctx, pending); err != nil {
			return err
		}
	case errors.Is(err, errs.ErrObjectNotFound):
		// no pending request, proceed
	default:
		return err
	}

	request, err := verification.NewRequest(
		command.RequestID(),
		command.OrderID(),
		aggregate.Items(),
		command.ProposedItems(),
		command.Note(),
		now,
	)
	if err != nil {
		return err
	}

	if err = verificationsRepo.Add(ctx, request); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	change := request.PriceChange()
	if err = h.notifier.Notify(ctx, NotificationRequest{
		RecipientID:   aggregate.CustomerID(),
		RecipientKind: notification.RecipientCustomer,
		Title:         "Order change needs your approval",
		Message: fmt.Sprintf("Your rider proposed changes to order %s (price change: %+.2f)",
			aggregate.ID().String(), change.Delta),
		Kind:     "verification",
		Channels: []notification.Channel{notification.ChannelApp, notification.ChannelPush},
	}); err != nil {
		h.logger.Error("failed to notify customer about proposal",
			"orderId", aggregate.ID().String(),
			"requestId", request.ID().String(),
			"error", err)
	}

	return nil
}
