// Package verification implements the customer-approval workflow for
// rider-proposed order edits. A rider working an in-flight order may
// propose a changed item list; the proposal is captured as a Request with a
// computed item diff and price delta, and waits for the customer's decision
// for at most 24 hours.
package verification
