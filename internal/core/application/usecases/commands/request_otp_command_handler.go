package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/core/ports"
)

// RequestOTPCommandHandler issues one-time passcodes and delivers them over
// sms. Requesting a code while one is live replaces it: the old code stops
// working immediately and the new code gets a fresh expiry and attempt
// budget.
type RequestOTPCommandHandler struct {
	store      ports.OTPStore
	smsGateway ports.SMSGateway
	logger     *slog.Logger
}

// NewRequestOTPCommandHandler creates a handler for otp issuance.
func NewRequestOTPCommandHandler(
	store ports.OTPStore,
	smsGateway ports.SMSGateway,
	logger *slog.Logger,
) RequestOTPCommandHandler {
	return RequestOTPCommandHandler{
		store:      store,
		smsGateway: smsGateway,
		logger:     logger.With("component", "request-otp"),
	}
}

// Handle generates a six-digit code, stores it under the contact and
// purpose key, and sends it to the contact. A delivery failure is returned
// as an external service error; the stored code stays live so a retried
// request simply replaces it.
func (h RequestOTPCommandHandler) Handle(ctx context.Context, command RequestOTPCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return err
	}

	record, err := otp.NewRecord(code, time.Now())
	if err != nil {
		return err
	}

	key := command.Key()
	h.store.Put(key, record)

	message := fmt.Sprintf("Your %s verification code is %s. It expires in %d minutes.",
		key.Purpose, code, int(otp.TTL.Minutes()))
	if err = h.smsGateway.Send(ctx, key.Contact, message); err != nil {
		h.logger.Error("failed to deliver otp", "purpose", key.Purpose, "error", err)
		return err
	}

	return nil
}
