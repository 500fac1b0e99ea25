package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrProposeOrderEditCommandIsNotConstructed = errors.New(
	"ProposeOrderEditCommand must be created via NewProposeOrderEditCommand constructor",
)

// ProposeOrderEditCommand opens a verification request for a rider-proposed
// change to an order's item list. The customer decides on the request within
// 24 hours; until then the order keeps its original items.
//
// Example:
//
//	items := []order.Item{washAndFold, ironing}
//	cmd, err := NewProposeOrderEditCommand(requestID, orderID, items, "found extra shirts")
//	if err != nil {
//	    return fmt.Errorf("invalid proposal: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // a pending request already exists for this order
//	}
type ProposeOrderEditCommand struct { //nolint:recvcheck //using for validation
	requestID     kernel.UUID
	orderID       kernel.UUID
	proposedItems []order.Item
	note          string

	guard guard.ConstructorGuard
}

// NewProposeOrderEditCommand creates a command to propose a new item list
// for the order. The note is optional free text shown to the customer.
func NewProposeOrderEditCommand(
	requestID kernel.UUID,
	orderID kernel.UUID,
	proposedItems []order.Item,
	note string,
) (ProposeOrderEditCommand, error) {
	editCommand := ProposeOrderEditCommand{
		note:  note,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		editCommand.setRequestID(requestID),
		editCommand.setOrderID(orderID),
		editCommand.setProposedItems(proposedItems),
	); err != nil {
		return ProposeOrderEditCommand{}, err
	}

	return editCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ProposeOrderEditCommand) Validate() error {
	return c.guard.Validate(ErrProposeOrderEditCommandIsNotConstructed)
}

// RequestID returns the identifier for the new verification request.
func (c ProposeOrderEditCommand) RequestID() kernel.UUID {
	return c.requestID
}

// OrderID returns the identifier of the order the edit targets.
func (c ProposeOrderEditCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ProposedItems returns the proposed item list.
func (c ProposeOrderEditCommand) ProposedItems() []order.Item {
	items := make([]order.Item, len(c.proposedItems))
	copy(items, c.proposedItems)
	return items
}

// Note returns the rider's free-form note.
func (c ProposeOrderEditCommand) Note() string {
	return c.note
}

func (c *ProposeOrderEditCommand) setRequestID(requestID kernel.UUID) error {
	if err := requestID.Validate(); err != nil {
		return err
	}

	c.requestID = requestID
	return nil
}

func (c *ProposeOrderEditCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ProposeOrderEditCommand) setProposedItems(proposedItems []order.Item) error {
	if len(proposedItems) == 0 {
		return errs.NewValueIsRequiredError("proposed items")
	}
	for _, item := range proposedItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	c.proposedItems = make([]order.Item, len(proposedItems))
	copy(c.proposedItems, proposedItems)
	return nil
}
