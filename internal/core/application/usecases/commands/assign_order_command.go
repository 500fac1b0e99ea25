package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand assigns a rider (and optionally a vendor) to an order.
// A created order moves to pickup_assigned; an order ready for delivery
// moves to delivery_assigned; reassignment within an assigned state swaps
// the rider in place. A vendor-only change is allowed by passing the current
// rider.
//
// Example:
//
//	cmd, err := NewAssignOrderCommand(orderID, riderID, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid assignment: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("assignment failed: %w", err)
//	}
type AssignOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	riderID  kernel.UUID
	vendorID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignOrderCommand creates a command to assign the rider to the order.
// vendorID is optional.
func NewAssignOrderCommand(orderID kernel.UUID, riderID kernel.UUID, vendorID *kernel.UUID) (AssignOrderCommand, error) {
	assignCommand := AssignOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		assignCommand.setOrderID(orderID),
		assignCommand.setRiderID(riderID),
		assignCommand.setVendorID(vendorID),
	); err != nil {
		return AssignOrderCommand{}, err
	}

	return assignCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to assign.
func (c AssignOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RiderID returns the identifier of the rider taking the order.
func (c AssignOrderCommand) RiderID() kernel.UUID {
	return c.riderID
}

// VendorID returns the optional vendor to attach, nil to leave unchanged.
func (c AssignOrderCommand) VendorID() *kernel.UUID {
	return c.vendorID
}

func (c *AssignOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignOrderCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}

func (c *AssignOrderCommand) setVendorID(vendorID *kernel.UUID) error {
	if vendorID == nil {
		return nil
	}
	if err := vendorID.Validate(); err != nil {
		return err
	}

	c.vendorID = vendorID
	return nil
}
