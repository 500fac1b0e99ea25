package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrExpireVerificationsCommandIsNotConstructed = errors.New(
	"ExpireVerificationsCommand must be created via NewExpireVerificationsCommand constructor",
)

// ExpireVerificationsCommand triggers the expiry sweep: every pending
// verification request past its 24-hour deadline is closed as rejected with
// the "expired" reason. Run periodically by the scheduler.
type ExpireVerificationsCommand struct {
	guard guard.ConstructorGuard
}

// NewExpireVerificationsCommand creates a new command to trigger the sweep.
func NewExpireVerificationsCommand() ExpireVerificationsCommand {
	return ExpireVerificationsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *ExpireVerificationsCommand) Validate() error {
	return c.guard.Validate(ErrExpireVerificationsCommandIsNotConstructed)
}
