package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/ports"
)

// ExpireVerificationsCommandHandler closes pending verification requests
// whose decision deadline has passed. Each closed request is published as a
// rejected decision after the sweep's transaction commits, so downstream
// consumers see expiry and explicit rejection the same way.
type ExpireVerificationsCommandHandler struct {
	uowFactory VerificationUoWFactory
	publisher  ports.OrderEventPublisher
	logger     *slog.Logger
}

// NewExpireVerificationsCommandHandler creates a handler for the expiry
// sweep.
func NewExpireVerificationsCommandHandler(
	uowFactory VerificationUoWFactory,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) ExpireVerificationsCommandHandler {
	return ExpireVerificationsCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "expire-verifications"),
	}
}

// Handle sweeps expired pending requests and closes them.
func (h ExpireVerificationsCommandHandler) Handle(ctx context.Context, command ExpireVerificationsCommand) error {
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

	now := time.Now()
	expired, err := verificationsRepo.GetAllPendingExpiredBefore(ctx, now)
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	for _, request := range expired {
		if err = request.Expire(now); err != nil {
			return err
		}
		if err = verificationsRepo.Update(ctx, request); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, request := range expired {
		event := ports.VerificationDecidedEvent{
			RequestID: request.ID(),
			OrderID:   request.OrderID(),
			Status:    request.Status(),
			Reason:    request.Reason(),
		}
		if err = h.publisher.PublishVerificationDecided(ctx, event); err != nil {
			h.logger.Error("failed to publish expired verification",
				"requestId", request.ID().String(), "error", err)
		}
	}

	h.logger.Info("expired pending verification requests", "count", len(expired))
	return nil
}
