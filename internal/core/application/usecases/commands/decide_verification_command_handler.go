package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/ports"
)

// VerificationDecidedSubscriber is an in-process callback invoked after a
// verification decision commits. Subscribers run synchronously in
// registration order; a subscriber error is logged and does not stop the
// remaining subscribers.
type VerificationDecidedSubscriber func(ctx context.Context, event ports.VerificationDecidedEvent)

// DecideVerificationCommandHandler applies customer decisions to pending
// verification requests.
//
// Approval applies the proposed items to the order through the order's own
// edit rules and persists both aggregates in one transaction - if the edit
// is illegal (terminal order, negative final amount) the whole decision
// rolls back and the request stays pending. After commit the decision is
// published to the broker and to registered in-process subscribers, and the
// order's rider is notified.
type DecideVerificationCommandHandler struct {
	uowFactory  VerificationUoWFactory
	publisher   ports.OrderEventPublisher
	notifier    Notifier
	subscribers []VerificationDecidedSubscriber
	logger      *slog.Logger
}

// NewDecideVerificationCommandHandler creates a handler for verification
// decisions.
func NewDecideVerificationCommandHandler(
	uowFactory VerificationUoWFactory,
	publisher ports.OrderEventPublisher,
	notifier Notifier,
	subscribers []VerificationDecidedSubscriber,
	logger *slog.Logger,
) DecideVerificationCommandHandler {
	return DecideVerificationCommandHandler{
		uowFactory:  uowFactory,
		publisher:   publisher,
		notifier:    notifier,
		subscribers: subscribers,
		logger:      logger.With("component", "decide-verification"),
	}
}

// Handle processes the decision command.
// Returns an expired error when approving past the request deadline and a
// conflict error when the request was already decided.
func (h DecideVerificationCommandHandler) Handle(ctx context.Context, command DecideVerificationCommand) error {
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

	verificationsRepo := uow.VerificationRepository()
	ordersRepo := uow.OrderRepository()

	request, err := verificationsRepo.Get(ctx, command.RequestID())
	if err != nil {
		return err
	}

	aggregate, err := ordersRepo.Get(ctx, request.OrderID())
	if err != nil {
		return err
	}

	now := time.Now()

	if command.Approve() {
		if err = request.Approve(now); err != nil {
			return err
		}
		if err = aggregate.ApplyEdit(request.ProposedItems()); err != nil {
			return err
		}
		if err = ordersRepo.Update(ctx, aggregate); err != nil {
			return err
		}
	} else {
		if err = request.Reject(command.Reason(), now); err != nil {
			return err
		}
	}

	if err = verificationsRepo.Update(ctx, request); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	event := ports.VerificationDecidedEvent{
		RequestID: request.ID(),
		OrderID:   request.OrderID(),
		Status:    request.Status(),
		Reason:    request.Reason(),
	}
	if err = h.publisher.PublishVerificationDecided(ctx, event); err != nil {
		h.logger.Error("failed to publish verification decision",
			"requestId", request.ID().String(), "error", err)
	}
	for _, subscriber := range h.subscribers {
		subscriber(ctx, event)
	}

	if riderID := aggregate.Rider(); riderID != nil {
		outcome := "approved"
		if !command.Approve() {
			outcome = "rejected"
		}
		if err = h.notifier.Notify(ctx, NotificationRequest{
			RecipientID:   *riderID,
			RecipientKind: notification.RecipientRider,
			Title:         "Order change " + outcome,
			Message: fmt.Sprintf("The customer %s your proposed changes to order %s",
				outcome, aggregate.ID().String()),
			Kind:     "verification",
			Channels: []notification.Channel{notification.ChannelApp},
		}); err != nil {
			h.logger.Error("failed to notify rider about decision",
				"requestId", request.ID().String(), "error", err)
		}
	}

	return nil
}
