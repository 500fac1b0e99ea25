package ports

import (
	"dispatch/internal/core/domain/model/otp"
)

// OTPStore keeps live one-time passcodes keyed by contact and purpose.
//
// Mutate is the atomicity primitive: the store serializes calls per key, so
// a check-and-update sequence inside fn observes and produces consistent
// state even under concurrent verification attempts for the same key.
// Operations on different keys never block each other.
type OTPStore interface {
	// Put stores a record under the key, replacing any live record.
	Put(key otp.Key, record otp.Record)

	// Mutate runs fn under the key's lock. fn receives the current record
	// and whether one exists, and returns the record to keep and whether to
	// keep it; returning keep=false evicts the key. The error from fn is
	// returned unchanged.
	Mutate(key otp.Key, fn func(record otp.Record, exists bool) (otp.Record, bool, error)) error

	// Delete evicts the key's record if present.
	Delete(key otp.Key)
}
