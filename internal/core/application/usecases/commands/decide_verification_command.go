package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrDecideVerificationCommandIsNotConstructed = errors.New(
	"DecideVerificationCommand must be created via NewDecideVerificationCommand constructor",
)

// DecideVerificationCommand records the customer's decision on a pending
// verification request. Approval applies the proposed item list to the
// order; rejection closes the request with the customer's reason and leaves
// the order untouched.
//
// Example:
//
//	cmd, err := NewDecideVerificationCommand(requestID, false, "too expensive")
//	if err != nil {
//	    return fmt.Errorf("invalid decision: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrExpired) {
//	    // the request expired before the customer decided
//	}
type DecideVerificationCommand struct { //nolint:recvcheck //using for validation
	requestID kernel.UUID
	approve   bool
	reason    string

	guard guard.ConstructorGuard
}

// NewDecideVerificationCommand creates a command recording the decision.
// A rejection requires a reason; an approval ignores it.
func NewDecideVerificationCommand(requestID kernel.UUID, approve bool, reason string) (DecideVerificationCommand, error) {
	decideCommand := DecideVerificationCommand{
		approve: approve,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		decideCommand.setRequestID(requestID),
		decideCommand.setReason(approve, reason),
	); err != nil {
		return DecideVerificationCommand{}, err
	}

	return decideCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c DecideVerificationCommand) Validate() error {
	return c.guard.Validate(ErrDecideVerificationCommandIsNotConstructed)
}

// RequestID returns the identifier of the request being decided.
func (c DecideVerificationCommand) RequestID() kernel.UUID {
	return c.requestID
}

// Approve reports whether the customer accepted the proposal.
func (c DecideVerificationCommand) Approve() bool {
	return c.approve
}

// Reason returns the rejection reason, empty on approval.
func (c DecideVerificationCommand) Reason() string {
	return c.reason
}

func (c *DecideVerificationCommand) setRequestID(requestID kernel.UUID) error {
	if err := requestID.Validate(); err != nil {
		return err
	}

	c.requestID = requestID
	return nil
}

func (c *DecideVerificationCommand) setReason(approve bool, reason string) error {
	if !approve && reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	if approve {
		reason = ""
	}

	c.reason = reason
	return nil
}
