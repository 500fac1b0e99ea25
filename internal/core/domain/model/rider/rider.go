package rider

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// VerificationState is the admin verification status of a rider's documents.
type VerificationState string

const (
	// VerificationPending means the rider's documents await review.
	VerificationPending VerificationState = "pending"
	// VerificationApproved means the rider may take assignments.
	VerificationApproved VerificationState = "approved"
	// VerificationRejected means the rider's documents were declined.
	VerificationRejected VerificationState = "rejected"
)

// Validate checks if the VerificationState is one of the known values.
func (v VerificationState) Validate() error {
	switch v {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("verification state",
			fmt.Errorf("%q is not a verification state", string(v)))
	}
}

// Domain errors for rider operations.
var (
	// ErrRiderIsNotConstructed is returned when using an improperly initialized Rider.
	ErrRiderIsNotConstructed = errors.New("Rider must be created via NewRider or RestoreRider constructor")
	// ErrNameIsRequired is returned when attempting to create a rider without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrContactIsRequired is returned when attempting to create a rider without a contact.
	ErrContactIsRequired = errs.NewValueIsRequiredError("contact")
	// ErrRiderNotEligible is returned when an inactive or unapproved rider would take an assignment.
	ErrRiderNotEligible = errs.NewValueIsInvalidError("rider must be active and approved to take assignments")
)

// Rider is the aggregate root for a delivery rider.
//
// Key responsibilities:
//   - tracking the last reported location and its freshness
//   - recording admin verification and activity state
//   - bookkeeping the set of orders currently assigned to the rider
//
// Business rules:
//   - a rider must be active and approved to take assignments
//   - an order id appears at most once in the assigned set
//   - locations arrive as external pings; the aggregate never invents them
type Rider struct {
	id             kernel.UUID
	name           string
	contact        string
	location       *kernel.GeoLocation
	locationSeenAt *time.Time
	isActive       bool
	verification   VerificationState
	assignedOrders []kernel.UUID
	guard          guard.ConstructorGuard
}

// NewRider creates a new active Rider in pending verification with no
// location and no assignments.
func NewRider(id kernel.UUID, name string, contact string) (*Rider, error) {
	r := &Rider{
		isActive:     true,
		verification: VerificationPending,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setContact(contact),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRider reconstructs a Rider aggregate from persistent storage,
// including its location, verification state, and assigned order set.
func RestoreRider(
	id kernel.UUID,
	name string,
	contact string,
	location *kernel.GeoLocation,
	locationSeenAt *time.Time,
	isActive bool,
	verification VerificationState,
	assignedOrders []kernel.UUID,
) (*Rider, error) {
	r := &Rider{
		isActive: isActive,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setContact(contact),
		verification.Validate(),
	); err != nil {
		return nil, err
	}
	r.verification = verification

	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, err
		}
		loc := *location
		r.location = &loc
		if locationSeenAt != nil {
			seenAt := *locationSeenAt
			r.locationSeenAt = &seenAt
		}
	}

	for _, orderID := range assignedOrders {
		if err := r.AcceptOrder(orderID); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Validate ensures the Rider instance was properly constructed.
func (r *Rider) Validate() error {
	if r == nil {
		return ErrRiderIsNotConstructed
	}
	return r.guard.Validate(ErrRiderIsNotConstructed)
}

// IsEqual compares two riders by their unique identifiers.
func (r *Rider) IsEqual(other *Rider) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the rider's unique identifier.
func (r *Rider) ID() kernel.UUID {
	return r.id
}

// Name returns the rider's name.
func (r *Rider) Name() string {
	return r.name
}

// Contact returns the rider's contact number.
func (r *Rider) Contact() string {
	return r.contact
}

// Location returns the last reported location, or nil when none was reported.
func (r *Rider) Location() *kernel.GeoLocation {
	return r.location
}

// LocationSeenAt returns the time of the last location ping, if any.
func (r *Rider) LocationSeenAt() *time.Time {
	return r.locationSeenAt
}

// IsActive reports whether the rider is currently working.
func (r *Rider) IsActive() bool {
	return r.isActive
}

// Verification returns the rider's verification state.
func (r *Rider) Verification() VerificationState {
	return r.verification
}

// AssignedOrders returns a copy of the assigned order id set.
func (r *Rider) AssignedOrders() []kernel.UUID {
	orders := make([]kernel.UUID, len(r.assignedOrders))
	copy(orders, r.assignedOrders)
	return orders
}

// LocationFreshness classifies the age of the last location ping relative
// to now. Riders that never reported a location are FreshnessUnknown.
func (r *Rider) LocationFreshness(now time.Time) Freshness {
	if r.location == nil || r.locationSeenAt == nil {
		return FreshnessUnknown
	}
	return ClassifyFreshness(now.Sub(*r.locationSeenAt))
}

// UpdateLocation records a location ping with its report time.
func (r *Rider) UpdateLocation(location kernel.GeoLocation, seenAt time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := location.Validate(); err != nil {
		return err
	}

	r.location = &location
	r.locationSeenAt = &seenAt
	return nil
}

// SetActive toggles the rider's activity flag.
func (r *Rider) SetActive(active bool) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.isActive = active
	return nil
}

// SetVerification moves the rider to the given verification state.
func (r *Rider) SetVerification(state VerificationState) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := state.Validate(); err != nil {
		return err
	}
	r.verification = state
	return nil
}

// CanTakeAssignment reports whether the rider may be assigned orders:
// the rider must be active and approved.
func (r *Rider) CanTakeAssignment() bool {
	return r.isActive && r.verification == VerificationApproved
}

// AcceptOrder adds an order id to the rider's assigned set.
// Accepting an order the rider already carries is a no-op.
func (r *Rider) AcceptOrder(orderID kernel.UUID) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := orderID.Validate(); err != nil {
		return err
	}

	for _, existing := range r.assignedOrders {
		if existing.IsEqual(orderID) {
			return nil
		}
	}

	r.assignedOrders = append(r.assignedOrders, orderID)
	return nil
}

// ReleaseOrder removes an order id from the rider's assigned set.
// Releasing an order the rider does not carry is a no-op.
func (r *Rider) ReleaseOrder(orderID kernel.UUID) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := orderID.Validate(); err != nil {
		return err
	}

	for i, existing := range r.assignedOrders {
		if existing.IsEqual(orderID) {
			r.assignedOrders = append(r.assignedOrders[:i], r.assignedOrders[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *Rider) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Rider) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	r.name = name
	return nil
}

func (r *Rider) setContact(contact string) error {
	if contact == "" {
		return ErrContactIsRequired
	}
	r.contact = contact
	return nil
}
