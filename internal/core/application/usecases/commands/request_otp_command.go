package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/pkg/guard"
)

var ErrRequestOTPCommandIsNotConstructed = errors.New(
	"RequestOTPCommand must be created via NewRequestOTPCommand constructor",
)

// RequestOTPCommand issues a one-time passcode for a contact and purpose.
// A live code for the same contact and purpose is replaced, which re-arms
// the ten-minute expiry and resets the attempt counter.
//
// Example:
//
//	cmd, err := NewRequestOTPCommand("9999999999", "delivery")
//	if err != nil {
//	    return fmt.Errorf("invalid otp request: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to issue otp: %w", err)
//	}
type RequestOTPCommand struct { //nolint:recvcheck //using for validation
	key otp.Key

	guard guard.ConstructorGuard
}

// NewRequestOTPCommand creates a command to issue a code for the contact
// and purpose pair.
func NewRequestOTPCommand(contact string, purpose string) (RequestOTPCommand, error) {
	otpCommand := RequestOTPCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := otpCommand.setKey(contact, purpose); err != nil {
		return RequestOTPCommand{}, err
	}

	return otpCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestOTPCommand) Validate() error {
	return c.guard.Validate(ErrRequestOTPCommandIsNotConstructed)
}

// Key returns the contact and purpose pair the code is bound to.
func (c RequestOTPCommand) Key() otp.Key {
	return c.key
}

func (c *RequestOTPCommand) setKey(contact string, purpose string) error {
	key := otp.Key{Contact: contact, Purpose: purpose}
	if err := key.Validate(); err != nil {
		return err
	}

	c.key = key
	return nil
}
