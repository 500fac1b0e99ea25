package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateRiderLocationCommandIsNotConstructed = errors.New(
	"UpdateRiderLocationCommand must be created via NewUpdateRiderLocationCommand constructor",
)

// UpdateRiderLocationCommand records a rider's location ping. The ping time
// feeds the freshness classification used when ranking riders for pickups.
type UpdateRiderLocationCommand struct { //nolint:recvcheck //using for validation
	riderID  kernel.UUID
	location kernel.GeoLocation

	guard guard.ConstructorGuard
}

// NewUpdateRiderLocationCommand creates a command recording the rider's
// current coordinates.
func NewUpdateRiderLocationCommand(riderID kernel.UUID, latitude, longitude float64) (UpdateRiderLocationCommand, error) {
	locationCommand := UpdateRiderLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		locationCommand.setRiderID(riderID),
		locationCommand.setLocation(latitude, longitude),
	); err != nil {
		return UpdateRiderLocationCommand{}, err
	}

	return locationCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateRiderLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateRiderLocationCommandIsNotConstructed)
}

// RiderID returns the identifier of the rider reporting the ping.
func (c UpdateRiderLocationCommand) RiderID() kernel.UUID {
	return c.riderID
}

// Location returns the reported coordinates.
func (c UpdateRiderLocationCommand) Location() kernel.GeoLocation {
	return c.location
}

func (c *UpdateRiderLocationCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}

func (c *UpdateRiderLocationCommand) setLocation(latitude, longitude float64) error {
	location, err := kernel.NewGeoLocation(latitude, longitude)
	if err != nil {
		return err
	}

	c.location = location
	return nil
}
