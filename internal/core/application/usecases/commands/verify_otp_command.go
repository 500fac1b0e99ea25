package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrVerifyOTPCommandIsNotConstructed = errors.New(
	"VerifyOTPCommand must be created via NewVerifyOTPCommand constructor",
)

// VerifyOTPCommand checks a submitted code against the live code for a
// contact and purpose. A successful verification consumes the code; a
// wrong code burns one of five attempts.
//
// Example:
//
//	cmd, err := NewVerifyOTPCommand("9999999999", "delivery", "123456")
//	if err != nil {
//	    return fmt.Errorf("invalid otp verification: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrValueIsInvalid) {
//	    fmt.Printf("wrong code, %d attempts remaining", result.AttemptsRemaining)
//	}
type VerifyOTPCommand struct { //nolint:recvcheck //using for validation
	key  otp.Key
	code string

	guard guard.ConstructorGuard
}

// NewVerifyOTPCommand creates a command to verify the submitted code.
func NewVerifyOTPCommand(contact string, purpose string, code string) (VerifyOTPCommand, error) {
	verifyCommand := VerifyOTPCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		verifyCommand.setKey(contact, purpose),
		verifyCommand.setCode(code),
	); err != nil {
		return VerifyOTPCommand{}, err
	}

	return verifyCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyOTPCommand) Validate() error {
	return c.guard.Validate(ErrVerifyOTPCommandIsNotConstructed)
}

// Key returns the contact and purpose pair the verification targets.
func (c VerifyOTPCommand) Key() otp.Key {
	return c.key
}

// Code returns the submitted code.
func (c VerifyOTPCommand) Code() string {
	return c.code
}

func (c *VerifyOTPCommand) setKey(contact string, purpose string) error {
	key := otp.Key{Contact: contact, Purpose: purpose}
	if err := key.Validate(); err != nil {
		return err
	}

	c.key = key
	return nil
}

func (c *VerifyOTPCommand) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}

	c.code = code
	return nil
}
