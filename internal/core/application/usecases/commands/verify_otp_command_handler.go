package commands

import (
	"context"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// VerifyOTPResult reports the outcome of a verification attempt.
type VerifyOTPResult struct {
	// Verified is true when the submitted code matched.
	Verified bool
	// AttemptsRemaining is how many attempts are left after a wrong code,
	// zero in every other outcome.
	AttemptsRemaining int
}

// VerifyOTPCommandHandler checks submitted codes against the OTP store.
//
// The whole check-and-update runs inside the store's per-key lock, so
// concurrent verifications of the same code serialize: a correct code
// succeeds exactly once, and every concurrent duplicate observes the code
// as already consumed.
//
// Outcomes:
//   - no live code, or code expired: object-not-found error, code evicted
//   - attempt budget exhausted: rate-limit error, code evicted
//   - wrong code: validation error, one attempt burned, code kept (until
//     the burn exhausts the budget, which evicts)
//   - correct code: success, code consumed
type VerifyOTPCommandHandler struct {
	store ports.OTPStore
}

// NewVerifyOTPCommandHandler creates a handler for otp verification.
func NewVerifyOTPCommandHandler(store ports.OTPStore) VerifyOTPCommandHandler {
	return VerifyOTPCommandHandler{
		store: store,
	}
}

// Handle verifies the submitted code atomically.
func (h VerifyOTPCommandHandler) Handle(ctx context.Context, command VerifyOTPCommand) (VerifyOTPResult, error) {
	if err := command.Validate(); err != nil {
		return VerifyOTPResult{}, err
	}

	var result VerifyOTPResult
	now := time.Now()

	err := h.store.Mutate(command.Key(),
		func(record otp.Record, exists bool) (otp.Record, bool, error) {
			if !exists || record.IsExpired(now) {
				return otp.Record{}, false, errs.NewObjectNotFoundError(
					"otp", command.Key().Contact)
			}
			if record.AttemptsExhausted() {
				return otp.Record{}, false, errs.NewRateLimitError(
					"otp attempts", otp.MaxAttempts)
			}

			if !record.Matches(command.Code()) {
				record = record.WithFailedAttempt()
				if record.AttemptsExhausted() {
					return otp.Record{}, false, errs.NewRateLimitError(
						"otp attempts", otp.MaxAttempts)
				}
				result.AttemptsRemaining = record.AttemptsRemaining()
				return record, true, errs.NewValueIsInvalidErrorWithCause("code",
					fmt.Errorf("%d attempts remaining", record.AttemptsRemaining()))
			}

			// single use: consume on success
			return otp.Record{}, false, nil
		})
	if err != nil {
		return result, err
	}

	result.Verified = true
	return result, nil
}
