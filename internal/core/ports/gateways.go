package ports

import (
	"context"
)

// SMSGateway sends text messages through an external SMS provider.
// Implementations must honor the context deadline; the notification
// dispatcher calls with a bounded timeout.
type SMSGateway interface {
	Send(ctx context.Context, to string, message string) error
}

// PushGateway sends push notifications to a recipient's registered devices.
type PushGateway interface {
	Send(ctx context.Context, recipientID string, title string, message string) error
}
