package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the canonical lifecycle state of an order.
// It implements a state machine with a single directed path:
//
//	created ──> pickup_assigned ──> pickup_completed ──> delivered_to_vendor
//	        ──> ready_for_delivery ──> delivery_assigned ──> completed
//
// with cancelled reachable from any non-terminal state. Transitions that
// are not forward moves along this path (including any move in reverse)
// are rejected.
//
// Status is stored as its canonical string value. Legacy vocabularies are
// translated on read via Normalize and rendered for legacy consumers via
// LegacyView.
type Status string

// Canonical states, in lifecycle order.
const (
	Created           Status = "created"
	PickupAssigned    Status = "pickup_assigned"
	PickupCompleted   Status = "pickup_completed"
	DeliveredToVendor Status = "delivered_to_vendor"
	ReadyForDelivery  Status = "ready_for_delivery"
	DeliveryAssigned  Status = "delivery_assigned"
	Completed         Status = "completed"
	Cancelled         Status = "cancelled"
)

// lifecycleRank orders the canonical states along the directed path.
// Cancelled is deliberately absent: it is not on the path.
func lifecycleRank() map[Status]int {
	return map[Status]int{
		Created:           0,
		PickupAssigned:    1,
		PickupCompleted:   2,
		DeliveredToVendor: 3,
		ReadyForDelivery:  4,
		DeliveryAssigned:  5,
		Completed:         6,
	}
}

// legacyToCanonical is the fixed lookup table translating the legacy status
// vocabulary to canonical states on read.
func legacyToCanonical() map[string]Status {
	return map[string]Status{
		"pending":          Created,
		"confirmed":        PickupAssigned,
		"accepted":         PickupAssigned,
		"assigned":         PickupAssigned,
		"picked_up":        PickupCompleted,
		"processing":       DeliveredToVendor,
		"in_progress":      ReadyForDelivery,
		"out_for_delivery": DeliveryAssigned,
		"delivered":        Completed,
		"cancelled":        Cancelled,
	}
}

// Normalize translates a legacy or canonical status string to its canonical
// Status. It is total and idempotent: every input produces a defined value,
// empty input defaults to Created, and strings outside the legacy table
// normalize to themselves.
func Normalize(s string) Status {
	if s == "" {
		return Created
	}
	if canonical, ok := legacyToCanonical()[s]; ok {
		return canonical
	}
	return Status(s)
}

// LegacyView renders the canonical status in the legacy vocabulary for
// write-compatibility with legacy consumers. The mapping is lossy: the
// pickup_completed, delivered_to_vendor, and ready_for_delivery states all
// collapse onto "in_progress". This rendering is presentation-only and must
// never be stored - the stored status is always canonical.
func (s Status) LegacyView() string {
	switch s {
	case Created:
		return "pending"
	case PickupAssigned:
		return "assigned"
	case PickupCompleted, DeliveredToVendor, ReadyForDelivery:
		return "in_progress"
	case DeliveryAssigned:
		return "out_for_delivery"
	case Completed:
		return "delivered"
	case Cancelled:
		return "cancelled"
	default:
		return string(s)
	}
}

// String returns the canonical string value of the status.
func (s Status) String() string {
	return string(s)
}

// Validate checks if the Status is one of the canonical states.
func (s Status) Validate() error {
	if s == Cancelled {
		return nil
	}
	if _, ok := lifecycleRank()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q is not a canonical status", string(s)))
	}
	return nil
}

// IsTerminal reports whether the status ends the order lifecycle.
// Terminal orders accept no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// Next returns the state that follows s on the lifecycle path.
// Returns an error for terminal states and for cancelled.
func (s Status) Next() (Status, error) {
	rank, ok := lifecycleRank()[s]
	if !ok || s == Completed {
		return "", errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s has no next lifecycle state", s))
	}
	for candidate, r := range lifecycleRank() {
		if r == rank+1 {
			return candidate, nil
		}
	}
	return "", errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%s has no next lifecycle state", s))
}

// TransitionTo validates the transition from s to target and returns target.
//
// Valid transitions:
//   - any forward move along the lifecycle path (skipping states is allowed,
//     legacy callers jump straight to "delivered")
//   - any non-terminal state -> Cancelled
//
// Everything else - reverse moves, transitions out of a terminal state, and
// self-transitions - is rejected with a validation error.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	if err := target.Validate(); err != nil {
		return "", err
	}

	if s.IsTerminal() {
		return "", errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is terminal and accepts no transitions", s))
	}

	if target == Cancelled {
		return Cancelled, nil
	}

	fromRank := lifecycleRank()[s]
	toRank := lifecycleRank()[target]
	if toRank <= fromRank {
		return "", errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("cannot move from %s to %s: transitions follow the lifecycle path forward", s, target))
	}

	return target, nil
}
