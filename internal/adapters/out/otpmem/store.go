// Package otpmem provides the in-memory OTP store. Passcodes are short
// lived and tied to the issuing process, so process memory is their system
// of record; a restart simply forces re-request.
package otpmem

import (
	"sync"
	"time"

	"dispatch/internal/core/domain/model/otp"
)

// Store keeps live passcode records keyed by contact and purpose.
//
// A per-key lock serializes Put, Mutate, and Delete for the same key, so
// concurrent verification attempts observe consistent attempt counts and a
// code is consumed exactly once. Operations on different keys never block
// each other. An eviction timer removes each record shortly after its
// expiry; an expired record still present between timer fire and lookup is
// treated as absent by the verification handler.
type Store struct {
	mu      sync.Mutex
	entries map[otp.Key]*entry
}

type entry struct {
	mu      sync.Mutex
	record  otp.Record
	present bool
	timer   *time.Timer
}

// evictionGrace delays timer-based removal past the expiry instant so a
// verification racing the deadline still finds the record and reports it
// as expired rather than missing.
const evictionGrace = time.Minute

// NewStore creates an empty in-memory OTP store.
func NewStore() *Store {
	return &Store{entries: make(map[otp.Key]*entry)}
}

// Put stores a record under the key, replacing any live record and
// re-arming the eviction timer.
func (s *Store) Put(key otp.Key, record otp.Record) {
	e := s.lockEntry(key)
	defer e.mu.Unlock()

	e.record = record
	e.present = true
	s.armTimer(key, e, record)
}

// Mutate runs fn under the key's lock. fn receives the current record and
// whether one exists; returning keep=false evicts the key. The error from
// fn is returned unchanged.
func (s *Store) Mutate(key otp.Key, fn func(record otp.Record, exists bool) (otp.Record, bool, error)) error {
	e := s.lockEntry(key)
	defer e.mu.Unlock()

	record, keep, err := fn(e.record, e.present)
	if !keep {
		s.remove(key, e)
		return err
	}

	e.record = record
	e.present = true
	s.armTimer(key, e, record)
	return err
}

// Delete evicts the key's record if present.
func (s *Store) Delete(key otp.Key) {
	s.mu.Lock()
	e, ok := s.entries[key]
	s.mu.Unlock()
	if !ok {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	s.remove(key, e)
}

// lockEntry returns the key's entry with its lock held. An entry observed
// after eviction is discarded and the lookup retried, so a locked entry is
// always the one registered in the map.
func (s *Store) lockEntry(key otp.Key) *entry {
	for {
		s.mu.Lock()
		e, ok := s.entries[key]
		if !ok {
			e = &entry{}
			s.entries[key] = e
		}
		s.mu.Unlock()

		e.mu.Lock()

		s.mu.Lock()
		current := s.entries[key]
		s.mu.Unlock()
		if current == e {
			return e
		}
		e.mu.Unlock()
	}
}

// remove drops the key's entry and stops its timer. Callers hold e.mu.
func (s *Store) remove(key otp.Key, e *entry) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.present = false

	s.mu.Lock()
	if current, ok := s.entries[key]; ok && current == e {
		delete(s.entries, key)
	}
	s.mu.Unlock()
}

// armTimer schedules eviction past the record's expiry, replacing any
// previous timer. Callers hold e.mu.
func (s *Store) armTimer(key otp.Key, e *entry, record otp.Record) {
	if e.timer != nil {
		e.timer.Stop()
	}

	delay := time.Until(record.ExpiresAt()) + evictionGrace
	e.timer = time.AfterFunc(delay, func() {
		s.Delete(key)
	})
}
