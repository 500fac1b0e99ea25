package verification

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// RequestTTL is how long a pending request waits for a customer decision
// before it expires.
const RequestTTL = 24 * time.Hour

// Status is the lifecycle state of a verification request.
type Status string

const (
	// StatusPending means the request awaits the customer's decision.
	StatusPending Status = "pending"
	// StatusApproved means the customer accepted the proposed edit.
	StatusApproved Status = "approved"
	// StatusRejected means the customer declined the proposed edit, or the
	// request expired undecided.
	StatusRejected Status = "rejected"
)

// Validate checks if the Status is one of the known values.
func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("verification status",
			fmt.Errorf("%q is not a verification status", string(s)))
	}
}

// ExpiredReason is the decision reason recorded when the expiry sweep
// closes an undecided request.
const ExpiredReason = "expired"

// ErrRequestIsNotConstructed is returned when using an improperly
// initialized Request.
var ErrRequestIsNotConstructed = errors.New(
	"Request must be created via NewRequest or RestoreRequest constructor")

// Request is the aggregate root for a rider-proposed order edit awaiting
// customer approval.
//
// Lifecycle: pending -> approved | rejected. An undecided request expires
// 24 hours after creation; expiry closes it as rejected with the reason
// "expired". At most one pending request exists per order at any time - the
// coordinator enforces that before creation.
type Request struct {
	id            kernel.UUID
	orderID       kernel.UUID
	originalItems []order.Item
	proposedItems []order.Item
	priceChange   PriceChange
	status        Status
	note          string
	reason        string
	createdAt     time.Time
	expiresAt     time.Time
	guard         guard.ConstructorGuard
}

// NewRequest creates a pending verification request for the given order,
// snapshotting the original and proposed item lists and computing the price
// change. The request expires RequestTTL after createdAt.
func NewRequest(
	id kernel.UUID,
	orderID kernel.UUID,
	originalItems []order.Item,
	proposedItems []order.Item,
	note string,
	createdAt time.Time,
) (*Request, error) {
	r := &Request{
		status:    StatusPending,
		note:      note,
		createdAt: createdAt,
		expiresAt: createdAt.Add(RequestTTL),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setOrderID(orderID),
		r.setItems(originalItems, proposedItems),
	); err != nil {
		return nil, err
	}

	r.priceChange = ComputePriceChange(r.originalItems, r.proposedItems)
	return r, nil
}

// RestoreRequest reconstructs a Request from persistent storage.
func RestoreRequest(
	id kernel.UUID,
	orderID kernel.UUID,
	originalItems []order.Item,
	proposedItems []order.Item,
	status Status,
	note string,
	reason string,
	createdAt time.Time,
	expiresAt time.Time,
) (*Request, error) {
	r := &Request{
		note:      note,
		reason:    reason,
		createdAt: createdAt,
		expiresAt: expiresAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setOrderID(orderID),
		r.setItems(originalItems, proposedItems),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	r.status = status

	r.priceChange = ComputePriceChange(r.originalItems, r.proposedItems)
	return r, nil
}

// Validate ensures the Request instance was properly constructed.
func (r *Request) Validate() error {
	if r == nil {
		return ErrRequestIsNotConstructed
	}
	return r.guard.Validate(ErrRequestIsNotConstructed)
}

// ID returns the request's unique identifier.
func (r *Request) ID() kernel.UUID {
	return r.id
}

// OrderID returns the identifier of the order the edit targets.
func (r *Request) OrderID() kernel.UUID {
	return r.orderID
}

// OriginalItems returns a copy of the original item snapshot.
func (r *Request) OriginalItems() []order.Item {
	items := make([]order.Item, len(r.originalItems))
	copy(items, r.originalItems)
	return items
}

// ProposedItems returns a copy of the proposed item list.
func (r *Request) ProposedItems() []order.Item {
	items := make([]order.Item, len(r.proposedItems))
	copy(items, r.proposedItems)
	return items
}

// PriceChange returns the monetary effect of the proposed edit.
func (r *Request) PriceChange() PriceChange {
	return r.priceChange
}

// Diff recomputes the item diff between the snapshots.
func (r *Request) Diff() ItemDiff {
	return DiffItems(r.originalItems, r.proposedItems)
}

// Status returns the request's lifecycle status.
func (r *Request) Status() Status {
	return r.status
}

// Note returns the free-form note the rider attached to the proposal.
func (r *Request) Note() string {
	return r.note
}

// Reason returns the decision reason, empty while pending.
func (r *Request) Reason() string {
	return r.reason
}

// CreatedAt returns the creation time of the request.
func (r *Request) CreatedAt() time.Time {
	return r.createdAt
}

// ExpiresAt returns the decision deadline.
func (r *Request) ExpiresAt() time.Time {
	return r.expiresAt
}

// IsPending reports whether the request still awaits a decision.
func (r *Request) IsPending() bool {
	return r.status == StatusPending
}

// IsExpired reports whether the decision deadline has passed.
func (r *Request) IsExpired(now time.Time) bool {
	return !now.Before(r.expiresAt)
}

// Approve records the customer's acceptance of the proposed edit.
// Fails when the request is not pending or already expired.
func (r *Request) Approve(now time.Time) error {
	return r.decide(StatusApproved, "", now)
}

// Reject records the customer's refusal with a reason.
// Fails when the request is not pending. Rejection is still allowed on an
// expired request - the outcome is the same either way.
func (r *Request) Reject(reason string, now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.status != StatusPending {
		return errs.NewConflictErrorWithCause("verification request",
			fmt.Errorf("request is already %s", r.status))
	}

	r.status = StatusRejected
	r.reason = reason
	return nil
}

// Expire closes an undecided request past its deadline as rejected with the
// "expired" reason. Fails when the request is not pending or the deadline
// has not passed yet.
func (r *Request) Expire(now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.status != StatusPending {
		return errs.NewConflictErrorWithCause("verification request",
			fmt.Errorf("request is already %s", r.status))
	}
	if !r.IsExpired(now) {
		return errs.NewValueIsInvalidErrorWithCause("verification request",
			fmt.Errorf("request does not expire until %s", r.expiresAt))
	}

	r.status = StatusRejected
	r.reason = ExpiredReason
	return nil
}

func (r *Request) decide(target Status, reason string, now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.status != StatusPending {
		return errs.NewConflictErrorWithCause("verification request",
			fmt.Errorf("request is already %s", r.status))
	}
	if r.IsExpired(now) {
		return errs.NewExpiredError("verification request")
	}

	r.status = target
	r.reason = reason
	return nil
}

func (r *Request) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Request) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	r.orderID = orderID
	return nil
}

func (r *Request) setItems(originalItems []order.Item, proposedItems []order.Item) error {
	if len(proposedItems) == 0 {
		return errs.NewValueIsRequiredError("proposed items")
	}
	for _, item := range originalItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	for _, item := range proposedItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	r.originalItems = make([]order.Item, len(originalItems))
	copy(r.originalItems, originalItems)
	r.proposedItems = make([]order.Item, len(proposedItems))
	copy(r.proposedItems, proposedItems)
	return nil
}
