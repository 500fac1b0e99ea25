package otp_test

import (
	"regexp"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/otp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_Validate(t *testing.T) {
	t.Run("should accept contact and purpose", func(t *testing.T) {
		key := otp.Key{Contact: "9999999999", Purpose: "delivery"}

		assert.NoError(t, key.Validate())
	})

	t.Run("should fail without contact", func(t *testing.T) {
		key := otp.Key{Purpose: "delivery"}

		require.Error(t, key.Validate())
	})

	t.Run("should fail without purpose", func(t *testing.T) {
		key := otp.Key{Contact: "9999999999"}

		require.Error(t, key.Validate())
	})
}

func TestGenerateCode(t *testing.T) {
	t.Run("should produce six digits", func(t *testing.T) {
		pattern := regexp.MustCompile(`^\d{6}$`)

		for i := 0; i < 50; i++ {
			code, err := otp.GenerateCode()
			require.NoError(t, err)
			assert.Regexp(t, pattern, code)
		}
	})
}

func TestNewRecord(t *testing.T) {
	t.Run("should expire ten minutes after issue", func(t *testing.T) {
		issuedAt := time.Now()

		record, err := otp.NewRecord("123456", issuedAt)

		require.NoError(t, err)
		assert.Equal(t, issuedAt.Add(otp.TTL), record.ExpiresAt())
		assert.Zero(t, record.Attempts())
		assert.Equal(t, otp.MaxAttempts, record.AttemptsRemaining())
	})

	t.Run("should fail with empty code", func(t *testing.T) {
		_, err := otp.NewRecord("", time.Now())

		require.Error(t, err)
	})
}

func TestRecord_IsExpired(t *testing.T) {
	t.Run("should flip exactly at the deadline", func(t *testing.T) {
		issuedAt := time.Now()
		record, err := otp.NewRecord("123456", issuedAt)
		require.NoError(t, err)

		assert.False(t, record.IsExpired(issuedAt.Add(otp.TTL-time.Second)))
		assert.True(t, record.IsExpired(issuedAt.Add(otp.TTL)))
	})
}

func TestRecord_Attempts(t *testing.T) {
	t.Run("should exhaust after five failures", func(t *testing.T) {
		record, err := otp.NewRecord("123456", time.Now())
		require.NoError(t, err)

		for i := 0; i < otp.MaxAttempts; i++ {
			assert.False(t, record.AttemptsExhausted(), "attempt %d", i)
			record = record.WithFailedAttempt()
			assert.Equal(t, otp.MaxAttempts-i-1, record.AttemptsRemaining())
		}

		assert.True(t, record.AttemptsExhausted())
		assert.Zero(t, record.AttemptsRemaining())
	})
}

func TestRecord_Matches(t *testing.T) {
	t.Run("should compare codes exactly", func(t *testing.T) {
		record, err := otp.NewRecord("123456", time.Now())
		require.NoError(t, err)

		assert.True(t, record.Matches("123456"))
		assert.False(t, record.Matches("654321"))
		assert.False(t, record.Matches(""))
	})
}
