package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/ports"
)

// DefaultChannelTimeout bounds each sms/push gateway call so one slow
// provider cannot stall the dispatch.
const DefaultChannelTimeout = 5 * time.Second

// DispatchNotificationCommandHandler creates notification records and
// attempts delivery over the requested channels.
//
// Channel outcomes are independent: the app channel succeeds when the
// record is stored, sms and push succeed when their gateway call returns
// within the timeout. A failed channel is recorded as not delivered and the
// dispatch still succeeds - the only error Handle returns is a failure to
// persist the record itself.
type DispatchNotificationCommandHandler struct {
	uowFactory     NotificationUoWFactory
	smsGateway     ports.SMSGateway
	pushGateway    ports.PushGateway
	channelTimeout time.Duration
	logger         *slog.Logger
}

// NewDispatchNotificationCommandHandler creates a handler for notification
// dispatch. channelTimeout bounds each gateway call; pass 0 for the
// default.
func NewDispatchNotificationCommandHandler(
	uowFactory NotificationUoWFactory,
	smsGateway ports.SMSGateway,
	pushGateway ports.PushGateway,
	channelTimeout time.Duration,
	logger *slog.Logger,
) DispatchNotificationCommandHandler {
	if channelTimeout <= 0 {
		channelTimeout = DefaultChannelTimeout
	}

	return DispatchNotificationCommandHandler{
		uowFactory:     uowFactory,
		smsGateway:     smsGateway,
		pushGateway:    pushGateway,
		channelTimeout: channelTimeout,
		logger:         logger.With("component", "dispatch-notification"),
	}
}

// Handle creates the notification, attempts each requested channel, and
// persists the record with its per-channel outcomes.
func (h DispatchNotificationCommandHandler) Handle(ctx context.Context, command DispatchNotificationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	aggregate, err := notification.NewNotification(
		command.NotificationID(),
		command.RecipientID(),
		command.RecipientKind(),
		command.Title(),
		command.Message(),
		command.Kind(),
		time.Now(),
		command.ExpiresAt(),
	)
	if err != nil {
		return err
	}

	for _, channel := range command.Channels() {
		delivered := h.attemptChannel(ctx, channel, command)
		if err = aggregate.RecordDelivery(channel, delivered); err != nil {
			return err
		}
		if !delivered {
			h.logger.Warn("notification channel failed",
				"notificationId", aggregate.ID().String(),
				"channel", string(channel))
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.NotificationRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// Notify implements the Notifier interface used by other workflows.
func (h DispatchNotificationCommandHandler) Notify(ctx context.Context, request NotificationRequest) error {
	command, err := NewDispatchNotificationCommand(
		kernel.NewUUID(),
		request.RecipientID,
		request.RecipientKind,
		request.Contact,
		request.Title,
		request.Message,
		request.Kind,
		request.Channels,
		nil,
	)
	if err != nil {
		return err
	}

	return h.Handle(ctx, command)
}

func (h DispatchNotificationCommandHandler) attemptChannel(
	ctx context.Context,
	channel notification.Channel,
	command DispatchNotificationCommand,
) bool {
	switch channel {
	case notification.ChannelApp:
		// delivered by storing the record
		return true
	case notification.ChannelSMS:
		sendCtx, cancel := context.WithTimeout(ctx, h.channelTimeout)
		defer cancel()
		return h.smsGateway.Send(sendCtx, command.Contact(), command.Message()) == nil
	case notification.ChannelPush:
		sendCtx, cancel := context.WithTimeout(ctx, h.channelTimeout)
		defer cancel()
		return h.pushGateway.Send(sendCtx,
			command.RecipientID().String(), command.Title(), command.Message()) == nil
	default:
		return false
	}
}
