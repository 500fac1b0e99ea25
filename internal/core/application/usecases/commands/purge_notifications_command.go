package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrPurgeNotificationsCommandIsNotConstructed = errors.New(
	"PurgeNotificationsCommand must be created via NewPurgeNotificationsCommand constructor",
)

// DefaultNotificationRetention is how long read notifications are kept
// before the cleanup sweep removes them. Unread notifications are kept
// forever.
const DefaultNotificationRetention = 30 * 24 * time.Hour

// PurgeNotificationsCommand triggers the notification retention sweep:
// read notifications created more than the retention period ago are
// deleted. Run periodically by the scheduler.
type PurgeNotificationsCommand struct { //nolint:recvcheck //using for validation
	retention time.Duration

	guard guard.ConstructorGuard
}

// NewPurgeNotificationsCommand creates a command to sweep with the given
// retention period. Pass 0 for the default.
func NewPurgeNotificationsCommand(retention time.Duration) (PurgeNotificationsCommand, error) {
	purgeCommand := PurgeNotificationsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := purgeCommand.setRetention(retention); err != nil {
		return PurgeNotificationsCommand{}, err
	}

	return purgeCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c PurgeNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrPurgeNotificationsCommandIsNotConstructed)
}

// Retention returns the retention period for read notifications.
func (c PurgeNotificationsCommand) Retention() time.Duration {
	return c.retention
}

func (c *PurgeNotificationsCommand) setRetention(retention time.Duration) error {
	if retention < 0 {
		return errs.NewValueIsInvalidError("retention")
	}
	if retention == 0 {
		retention = DefaultNotificationRetention
	}

	c.retention = retention
	return nil
}
