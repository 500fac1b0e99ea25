package errs_test

import (
	"errors"
	"testing"

	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "123")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("orderId", "123", cause)

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("Error with different ID types", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("riderId", 456)
		assert.Equal(t, "object not found: 456", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("contact")

		assert.Equal(t, "contact", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: contact", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("contact", cause)

		assert.Equal(t, "contact", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: contact (cause: invalid format)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("latitude", 150, -90, 90)

		assert.Equal(t, "latitude", err.ParamName)
		assert.Equal(t, 150, err.Value)
		assert.Equal(t, -90, err.Min)
		assert.Equal(t, 90, err.Max)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: 150 is latitude, min value is -90, max value is 90", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("NewValueIsOutOfRangeErrorWithCause", func(t *testing.T) {
		cause := errors.New("validation failed")
		err := errs.NewValueIsOutOfRangeErrorWithCause("quantity", -5, 0, 100, cause)

		assert.Equal(t, "quantity", err.ParamName)
		assert.Equal(t, -5, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 100, err.Max)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"value is invalid: -5 is quantity, min value is 0, max value is 100 (cause: validation failed)",
			err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("purpose")

		assert.Equal(t, "purpose", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: purpose", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("missing required field")
		err := errs.NewValueIsRequiredErrorWithCause("purpose", cause)

		assert.Equal(t, "purpose", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: purpose (cause: missing required field)", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})
}

func TestConflictError(t *testing.T) {
	t.Run("NewConflictError", func(t *testing.T) {
		err := errs.NewConflictError("pending verification request")

		assert.Equal(t, "pending verification request", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "conflict: pending verification request", err.Error())
		assert.Equal(t, errs.ErrConflict, err.Unwrap())
	})

	t.Run("NewConflictErrorWithCause", func(t *testing.T) {
		cause := errors.New("request already open")
		err := errs.NewConflictErrorWithCause("verification", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "conflict: verification (cause: request already open)", err.Error())
		assert.Equal(t, errs.ErrConflict, err.Unwrap())
	})
}

func TestExpiredError(t *testing.T) {
	t.Run("NewExpiredError", func(t *testing.T) {
		err := errs.NewExpiredError("otp")

		assert.Equal(t, "otp", err.ParamName)
		assert.Equal(t, "expired: otp", err.Error())
		assert.Equal(t, errs.ErrExpired, err.Unwrap())
	})
}

func TestRateLimitError(t *testing.T) {
	t.Run("NewRateLimitError", func(t *testing.T) {
		err := errs.NewRateLimitError("otp attempts", 5)

		assert.Equal(t, "otp attempts", err.ParamName)
		assert.Equal(t, 5, err.Limit)
		assert.Equal(t, "rate limit exceeded: otp attempts, limit is 5", err.Error())
		assert.Equal(t, errs.ErrRateLimitExceeded, err.Unwrap())
	})
}

func TestExternalServiceError(t *testing.T) {
	t.Run("NewExternalServiceError", func(t *testing.T) {
		err := errs.NewExternalServiceError("sms")

		assert.Equal(t, "sms", err.ServiceName)
		assert.Equal(t, "external service failed: sms", err.Error())
		assert.Equal(t, errs.ErrExternalService, err.Unwrap())
	})

	t.Run("NewExternalServiceErrorWithCause", func(t *testing.T) {
		cause := errors.New("timeout")
		err := errs.NewExternalServiceErrorWithCause("push", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "external service failed: push (cause: timeout)", err.Error())
		assert.Equal(t, errs.ErrExternalService, err.Unwrap())
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("sentinel errors are defined", func(t *testing.T) {
		require.Error(t, errs.ErrObjectNotFound)
		require.Error(t, errs.ErrValueIsInvalid)
		require.Error(t, errs.ErrValueIsOutOfRange)
		require.Error(t, errs.ErrValueIsRequired)
		require.Error(t, errs.ErrConflict)
		require.Error(t, errs.ErrExpired)
		require.Error(t, errs.ErrRateLimitExceeded)
		require.Error(t, errs.ErrExternalService)
	})

	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
		assert.Equal(t, "conflict", errs.ErrConflict.Error())
		assert.Equal(t, "expired", errs.ErrExpired.Error())
		assert.Equal(t, "rate limit exceeded", errs.ErrRateLimitExceeded.Error())
		assert.Equal(t, "external service failed", errs.ErrExternalService.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		require.ErrorIs(t, errs.NewObjectNotFoundError("orderId", "123"), errs.ErrObjectNotFound)
		require.ErrorIs(t, errs.NewValueIsInvalidError("contact"), errs.ErrValueIsInvalid)
		require.ErrorIs(t, errs.NewValueIsOutOfRangeError("latitude", 150, -90, 90), errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, errs.NewValueIsRequiredError("purpose"), errs.ErrValueIsRequired)
		require.ErrorIs(t, errs.NewConflictError("verification"), errs.ErrConflict)
		require.ErrorIs(t, errs.NewExpiredError("otp"), errs.ErrExpired)
		require.ErrorIs(t, errs.NewRateLimitError("otp attempts", 5), errs.ErrRateLimitExceeded)
		require.ErrorIs(t, errs.NewExternalServiceError("sms"), errs.ErrExternalService)
	})
}
