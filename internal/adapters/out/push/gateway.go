// Package push provides the push notification gateway. The current
// implementation only logs the delivery; the provider integration plugs in
// behind the same interface once the mobile clients register device tokens.
package push

import (
	"context"
	"log/slog"

	"dispatch/internal/pkg/errs"
)

// LoggingGateway reports every push as delivered after logging it.
type LoggingGateway struct {
	logger *slog.Logger
}

// NewLoggingGateway creates a push gateway that logs instead of delivering.
func NewLoggingGateway(logger *slog.Logger) *LoggingGateway {
	return &LoggingGateway{logger: logger.With("component", "push")}
}

// Send logs the push notification and succeeds.
func (g *LoggingGateway) Send(ctx context.Context, recipientID string, title string, message string) error {
	if recipientID == "" {
		return errs.NewValueIsRequiredError("recipientID")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	g.logger.Info("push delivered", "recipient_id", recipientID, "title", title, "length", len(message))
	return nil
}
