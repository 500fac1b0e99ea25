package commands

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
)

// NotificationRequest describes one message to deliver to a recipient over
// a set of channels.
type NotificationRequest struct {
	RecipientID   kernel.UUID
	RecipientKind notification.RecipientKind
	// Contact is the recipient's phone number, required for the sms channel.
	Contact  string
	Title    string
	Message  string
	Kind     string
	Channels []notification.Channel
}

// Notifier dispatches notifications from inside other workflows. The
// implementation never reports per-channel failures through the error -
// a non-nil error means the notification record itself could not be
// created. Callers treat even that as non-fatal: a failed notification
// never unwinds committed business state.
type Notifier interface {
	Notify(ctx context.Context, request NotificationRequest) error
}
