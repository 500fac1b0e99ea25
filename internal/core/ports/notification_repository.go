package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
)

// NotificationRepository defines the persistence contract for notification
// aggregates.
type NotificationRepository interface {
	// Add persists a new notification to storage.
	Add(ctx context.Context, aggregate *notification.Notification) error

	// Update persists changes to an existing notification.
	Update(ctx context.Context, aggregate *notification.Notification) error

	// Get retrieves a notification by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)

	// DeleteAllReadCreatedBefore removes read notifications created before
	// the given instant and returns how many were removed. Unread
	// notifications are never touched.
	DeleteAllReadCreatedBefore(ctx context.Context, deadline time.Time) (int64, error)
}
