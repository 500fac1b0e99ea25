package notification

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Channel is a delivery channel for a notification.
type Channel string

const (
	// ChannelApp is the in-app inbox; delivery means the record was stored.
	ChannelApp Channel = "app"
	// ChannelSMS delivers through the SMS gateway.
	ChannelSMS Channel = "sms"
	// ChannelPush delivers through the push gateway.
	ChannelPush Channel = "push"
)

// Validate checks if the Channel is one of the known values.
func (c Channel) Validate() error {
	switch c {
	case ChannelApp, ChannelSMS, ChannelPush:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("channel",
			fmt.Errorf("%q is not a notification channel", string(c)))
	}
}

// RecipientKind identifies which kind of party a notification targets.
type RecipientKind string

const (
	// RecipientCustomer addresses the order's customer.
	RecipientCustomer RecipientKind = "customer"
	// RecipientRider addresses a rider.
	RecipientRider RecipientKind = "rider"
)

// Validate checks if the RecipientKind is one of the known values.
func (k RecipientKind) Validate() error {
	switch k {
	case RecipientCustomer, RecipientRider:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("recipient kind",
			fmt.Errorf("%q is not a recipient kind", string(k)))
	}
}

// ErrNotificationIsNotConstructed is returned when using an improperly
// initialized Notification.
var ErrNotificationIsNotConstructed = errors.New(
	"Notification must be created via NewNotification or RestoreNotification constructor")

// Notification is the aggregate root for a message sent to a customer or a
// rider. Each requested channel records its own delivered outcome; a failed
// channel never affects the others and never removes the record itself.
type Notification struct {
	id            kernel.UUID
	recipientID   kernel.UUID
	recipientKind RecipientKind
	title         string
	message       string
	kind          string
	delivered     map[Channel]bool
	read          bool
	readAt        *time.Time
	createdAt     time.Time
	expiresAt     *time.Time
	guard         guard.ConstructorGuard
}

// NewNotification creates an unread notification addressed to the given
// recipient. No channel outcomes are recorded yet; the dispatcher records
// one per attempted channel. expiresAt is optional.
func NewNotification(
	id kernel.UUID,
	recipientID kernel.UUID,
	recipientKind RecipientKind,
	title string,
	message string,
	kind string,
	createdAt time.Time,
	expiresAt *time.Time,
) (*Notification, error) {
	n := &Notification{
		title:     title,
		kind:      kind,
		delivered: make(map[Channel]bool),
		createdAt: createdAt,
		expiresAt: expiresAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		n.setID(id),
		n.setRecipient(recipientID, recipientKind),
		n.setMessage(message),
	); err != nil {
		return nil, err
	}
	return n, nil
}

// RestoreNotification reconstructs a Notification from persistent storage.
func RestoreNotification(
	id kernel.UUID,
	recipientID kernel.UUID,
	recipientKind RecipientKind,
	title string,
	message string,
	kind string,
	delivered map[Channel]bool,
	read bool,
	readAt *time.Time,
	createdAt time.Time,
	expiresAt *time.Time,
) (*Notification, error) {
	n := &Notification{
		title:     title,
		kind:      kind,
		delivered: make(map[Channel]bool, len(delivered)),
		read:      read,
		readAt:    readAt,
		createdAt: createdAt,
		expiresAt: expiresAt,
		guard:     guard.NewConstructorGuard(),
	}
	for channel, ok := range delivered {
		n.delivered[channel] = ok
	}

	if err := errors.Join(
		n.setID(id),
		n.setRecipient(recipientID, recipientKind),
		n.setMessage(message),
	); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate ensures the Notification instance was properly constructed.
func (n *Notification) Validate() error {
	if n == nil {
		return ErrNotificationIsNotConstructed
	}
	return n.guard.Validate(ErrNotificationIsNotConstructed)
}

// ID returns the notification's unique identifier.
func (n *Notification) ID() kernel.UUID {
	return n.id
}

// RecipientID returns the recipient's identifier.
func (n *Notification) RecipientID() kernel.UUID {
	return n.recipientID
}

// RecipientKind returns whether the recipient is a customer or a rider.
func (n *Notification) RecipientKind() RecipientKind {
	return n.recipientKind
}

// Title returns the notification title.
func (n *Notification) Title() string {
	return n.title
}

// Message returns the notification body.
func (n *Notification) Message() string {
	return n.message
}

// Kind returns the free-form notification type, e.g. "order_update".
func (n *Notification) Kind() string {
	return n.kind
}

// Delivered returns a copy of the per-channel delivery outcomes. A channel
// absent from the map was never attempted.
func (n *Notification) Delivered() map[Channel]bool {
	outcomes := make(map[Channel]bool, len(n.delivered))
	for channel, ok := range n.delivered {
		outcomes[channel] = ok
	}
	return outcomes
}

// IsRead reports whether the recipient has read the notification.
func (n *Notification) IsRead() bool {
	return n.read
}

// ReadAt returns when the notification was read, nil while unread.
func (n *Notification) ReadAt() *time.Time {
	return n.readAt
}

// CreatedAt returns the creation time of the notification.
func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

// ExpiresAt returns the optional display deadline.
func (n *Notification) ExpiresAt() *time.Time {
	return n.expiresAt
}

// RecordDelivery stores the outcome of one channel attempt. Re-recording a
// channel overwrites its previous outcome.
func (n *Notification) RecordDelivery(channel Channel, delivered bool) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if err := channel.Validate(); err != nil {
		return err
	}

	n.delivered[channel] = delivered
	return nil
}

// MarkRead marks the notification read at the given time. Marking an already
// read notification is a no-op that keeps the original read time.
func (n *Notification) MarkRead(now time.Time) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if n.read {
		return nil
	}

	n.read = true
	readAt := now
	n.readAt = &readAt
	return nil
}

// IsPurgeable reports whether the retention sweep may delete the
// notification: it must be read and created more than retention ago.
// Unread notifications are kept regardless of age.
func (n *Notification) IsPurgeable(now time.Time, retention time.Duration) bool {
	return n.read && now.Sub(n.createdAt) > retention
}

func (n *Notification) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	n.id = id
	return nil
}

func (n *Notification) setRecipient(recipientID kernel.UUID, kind RecipientKind) error {
	if err := recipientID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("recipientID", err)
	}
	if err := kind.Validate(); err != nil {
		return err
	}

	n.recipientID = recipientID
	n.recipientKind = kind
	return nil
}

func (n *Notification) setMessage(message string) error {
	if message == "" {
		return errs.NewValueIsRequiredError("message")
	}
	n.message = message
	return nil
}
