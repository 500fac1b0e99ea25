package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrDispatchNotificationCommandIsNotConstructed = errors.New(
	"DispatchNotificationCommand must be created via NewDispatchNotificationCommand constructor",
)

// DispatchNotificationCommand sends one message to a recipient over a set
// of channels. Each channel is attempted independently: the app channel
// stores the record, sms and push go through their gateways. A channel
// failure is recorded on the notification and never fails the dispatch.
//
// Example:
//
//	cmd, err := NewDispatchNotificationCommand(
//	    kernel.NewUUID(), customerID, notification.RecipientCustomer,
//	    "9999999999", "Order update", "Your order is on its way", "order_update",
//	    []notification.Channel{notification.ChannelApp, notification.ChannelSMS},
//	    nil,
//	)
type DispatchNotificationCommand struct { //nolint:recvcheck //using for validation
	notificationID kernel.UUID
	recipientID    kernel.UUID
	recipientKind  notification.RecipientKind
	contact        string
	title          string
	message        string
	kind           string
	channels       []notification.Channel
	expiresAt      *time.Time

	guard guard.ConstructorGuard
}

// NewDispatchNotificationCommand creates a command to dispatch one
// notification. contact is the recipient's phone number, required only when
// the sms channel is requested. expiresAt is optional.
func NewDispatchNotificationCommand(
	notificationID kernel.UUID,
	recipientID kernel.UUID,
	recipientKind notification.RecipientKind,
	contact string,
	title string,
	message string,
	kind string,
	channels []notification.Channel,
	expiresAt *time.Time,
) (DispatchNotificationCommand, error) {
	dispatchCommand := DispatchNotificationCommand{
		contact:   contact,
		title:     title,
		kind:      kind,
		expiresAt: expiresAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		dispatchCommand.setNotificationID(notificationID),
		dispatchCommand.setRecipient(recipientID, recipientKind),
		dispatchCommand.setMessage(message),
		dispatchCommand.setChannels(channels, contact),
	); err != nil {
		return DispatchNotificationCommand{}, err
	}

	return dispatchCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c DispatchNotificationCommand) Validate() error {
	return c.guard.Validate(ErrDispatchNotificationCommandIsNotConstructed)
}

// NotificationID returns the identifier for the new notification record.
func (c DispatchNotificationCommand) NotificationID() kernel.UUID {
	return c.notificationID
}

// RecipientID returns the recipient's identifier.
func (c DispatchNotificationCommand) RecipientID() kernel.UUID {
	return c.recipientID
}

// RecipientKind returns whether the recipient is a customer or a rider.
func (c DispatchNotificationCommand) RecipientKind() notification.RecipientKind {
	return c.recipientKind
}

// Contact returns the recipient's phone number, empty when sms was not
// requested.
func (c DispatchNotificationCommand) Contact() string {
	return c.contact
}

// Title returns the notification title.
func (c DispatchNotificationCommand) Title() string {
	return c.title
}

// Message returns the notification body.
func (c DispatchNotificationCommand) Message() string {
	return c.message
}

// Kind returns the free-form notification type.
func (c DispatchNotificationCommand) Kind() string {
	return c.kind
}

// Channels returns the channels to attempt.
func (c DispatchNotificationCommand) Channels() []notification.Channel {
	channels := make([]notification.Channel, len(c.channels))
	copy(channels, c.channels)
	return channels
}

// ExpiresAt returns the optional display deadline.
func (c DispatchNotificationCommand) ExpiresAt() *time.Time {
	return c.expiresAt
}

func (c *DispatchNotificationCommand) setNotificationID(notificationID kernel.UUID) error {
	if err := notificationID.Validate(); err != nil {
		return err
	}

	c.notificationID = notificationID
	return nil
}

func (c *DispatchNotificationCommand) setRecipient(recipientID kernel.UUID, kind notification.RecipientKind) error {
	if err := recipientID.Validate(); err != nil {
		return err
	}
	if err := kind.Validate(); err != nil {
		return err
	}

	c.recipientID = recipientID
	c.recipientKind = kind
	return nil
}

func (c *DispatchNotificationCommand) setMessage(message string) error {
	if message == "" {
		return errs.NewValueIsRequiredError("message")
	}

	c.message = message
	return nil
}

func (c *DispatchNotificationCommand) setChannels(channels []notification.Channel, contact string) error {
	if len(channels) == 0 {
		return errs.NewValueIsRequiredError("channels")
	}
	for _, channel := range channels {
		if err := channel.Validate(); err != nil {
			return err
		}
		if channel == notification.ChannelSMS && contact == "" {
			return errs.NewValueIsRequiredError("contact")
		}
	}

	c.channels = make([]notification.Channel, len(channels))
	copy(c.channels, channels)
	return nil
}
