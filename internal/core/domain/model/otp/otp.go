// Package otp models one-time passcodes used to confirm handover at pickup
// and delivery. A code is bound to a contact and a purpose, lives for ten
// minutes, allows five verification attempts, and is consumed on the first
// successful match.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"dispatch/internal/pkg/errs"
)

// TTL is how long a code stays verifiable after generation.
const TTL = 10 * time.Minute

// MaxAttempts is the number of failed verifications allowed before the code
// is invalidated.
const MaxAttempts = 5

// CodeLength is the number of digits in a generated code.
const CodeLength = 6

// Key identifies a live code: one per contact and purpose pair.
type Key struct {
	Contact string
	Purpose string
}

// Validate checks that both key parts are present.
func (k Key) Validate() error {
	if k.Contact == "" {
		return errs.NewValueIsRequiredError("contact")
	}
	if k.Purpose == "" {
		return errs.NewValueIsRequiredError("purpose")
	}
	return nil
}

// GenerateCode produces a random six-digit code, zero-padded.
func GenerateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < CodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", errs.NewExternalServiceErrorWithCause("otp code generation", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n), nil
}

// Record is a live code awaiting verification.
type Record struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// NewRecord creates a fresh record for the given code, expiring TTL after
// issuedAt with a zeroed attempt counter.
func NewRecord(code string, issuedAt time.Time) (Record, error) {
	if code == "" {
		return Record{}, errs.NewValueIsRequiredError("code")
	}
	return Record{code: code, expiresAt: issuedAt.Add(TTL)}, nil
}

// RestoreRecord reconstructs a Record from storage.
func RestoreRecord(code string, expiresAt time.Time, attempts int) Record {
	return Record{code: code, expiresAt: expiresAt, attempts: attempts}
}

// Code returns the stored code.
func (r Record) Code() string {
	return r.code
}

// ExpiresAt returns the verification deadline.
func (r Record) ExpiresAt() time.Time {
	return r.expiresAt
}

// Attempts returns the number of failed verifications so far.
func (r Record) Attempts() int {
	return r.attempts
}

// IsExpired reports whether the deadline has passed.
func (r Record) IsExpired(now time.Time) bool {
	return !now.Before(r.expiresAt)
}

// AttemptsExhausted reports whether the failure budget is used up.
func (r Record) AttemptsExhausted() bool {
	return r.attempts >= MaxAttempts
}

// AttemptsRemaining returns how many failed attempts are still allowed.
func (r Record) AttemptsRemaining() int {
	remaining := MaxAttempts - r.attempts
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Matches reports whether the submitted code equals the stored one.
func (r Record) Matches(code string) bool {
	return r.code == code
}

// WithFailedAttempt returns a copy with the attempt counter incremented.
func (r Record) WithFailedAttempt() Record {
	r.attempts++
	return r
}
