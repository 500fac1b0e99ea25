package commands

import (
	"context"
	"time"
)

// MarkNotificationReadCommandHandler marks notifications as read. The read
// flag is independent of channel delivery outcomes - a notification whose
// sms delivery failed can still be read in the app.
type MarkNotificationReadCommandHandler struct {
	uowFactory NotificationUoWFactory
}

// NewMarkNotificationReadCommandHandler creates a handler for read marking.
func NewMarkNotificationReadCommandHandler(uowFactory NotificationUoWFactory) MarkNotificationReadCommandHandler {
	return MarkNotificationReadCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle loads the notification, marks it read, and persists it. Marking an
// already read notification succeeds without changing the read time.
func (h MarkNotificationReadCommandHandler) Handle(ctx context.Context, command MarkNotificationReadCommand) error {
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

	notificationsRepo := uow.NotificationRepository()

	aggregate, err := notificationsRepo.Get(ctx, command.NotificationID())
	if err != nil {
		return err
	}

	if err = aggregate.MarkRead(time.Now()); err != nil {
		return err
	}

	if err = notificationsRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
