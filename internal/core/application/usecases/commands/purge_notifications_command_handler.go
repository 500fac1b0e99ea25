package commands

import (
	"context"
	"log/slog"
	"time"
)

// PurgeNotificationsCommandHandler removes read notifications older than
// the retention period. Unread notifications are never deleted regardless
// of age.
type PurgeNotificationsCommandHandler struct {
	uowFactory NotificationUoWFactory
	logger     *slog.Logger
}

// NewPurgeNotificationsCommandHandler creates a handler for the retention
// sweep.
func NewPurgeNotificationsCommandHandler(
	uowFactory NotificationUoWFactory,
	logger *slog.Logger,
) PurgeNotificationsCommandHandler {
	return PurgeNotificationsCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "purge-notifications"),
	}
}

// Handle deletes read notifications created before the retention cutoff.
func (h PurgeNotificationsCommandHandler) Handle(ctx context.Context, command PurgeNotificationsCommand) error {
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

	deadline := time.Now().Add(-command.Retention())
	removed, err := uow.NotificationRepository().DeleteAllReadCreatedBefore(ctx, deadline)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if removed > 0 {
		h.logger.Info("purged read notifications", "count", removed)
	}
	return nil
}
