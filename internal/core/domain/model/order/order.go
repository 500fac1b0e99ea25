package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrRiderOutsideAssignmentWindow is returned when a rider reference would be
	// set while the order is outside the pickup_assigned..delivery_assigned window.
	ErrRiderOutsideAssignmentWindow = errors.New(
		"rider may only be referenced between pickup_assigned and delivery_assigned")
)

// Order is the aggregate root for a pickup-and-return service order.
// It carries the customer, the optional rider and vendor references, the
// ordered item list with monetary totals, the pickup location, and the
// canonical lifecycle status.
//
// Invariants:
//   - final amount is never negative
//   - a rider reference is only set while the status is within the
//     pickup_assigned..delivery_assigned window
//   - the status only moves forward along the lifecycle path, or to cancelled
//   - mutation happens exclusively through aggregate methods
type Order struct {
	id             kernel.UUID
	customerID     kernel.UUID
	riderID        *kernel.UUID
	vendorID       *kernel.UUID
	status         Status
	items          []Item
	pickupLocation kernel.GeoLocation
	scheduledAt    *time.Time
	deliveredAt    *time.Time
	subtotal       float64
	discount       float64
	finalAmount    float64
	isConstructed  bool
}

// NewOrder creates a new Order in Created status.
// The subtotal is computed from the item lines; the final amount is the
// subtotal less the discount and must not be negative.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	pickupLocation kernel.GeoLocation,
	items []Item,
	discount float64,
	scheduledAt *time.Time,
) (*Order, error) {
	o := &Order{
		status:        Created,
		scheduledAt:   scheduledAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setPickupLocation(pickupLocation),
		o.setItems(items),
		o.setDiscount(discount),
	); err != nil {
		return nil, err
	}

	if err := o.recalculateTotals(); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage,
// preserving its status, references, and totals as persisted. The restored
// order behaves identically to one created through normal domain operations.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	riderID *kernel.UUID,
	vendorID *kernel.UUID,
	status Status,
	items []Item,
	pickupLocation kernel.GeoLocation,
	scheduledAt *time.Time,
	deliveredAt *time.Time,
	discount float64,
) (*Order, error) {
	o := &Order{
		vendorID:      vendorID,
		scheduledAt:   scheduledAt,
		deliveredAt:   deliveredAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setPickupLocation(pickupLocation),
		o.setItems(items),
		o.setDiscount(discount),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = status

	if riderID != nil {
		if err := o.checkRiderWindow(status); err != nil {
			return nil, err
		}
		rid := *riderID
		o.riderID = &rid
	}

	if err := o.recalculateTotals(); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the identifier of the customer who booked the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Rider returns the assigned rider's ID, or nil when no rider is assigned.
func (o *Order) Rider() *kernel.UUID {
	return o.riderID
}

// Vendor returns the assigned vendor's ID, or nil when no vendor is assigned.
func (o *Order) Vendor() *kernel.UUID {
	return o.vendorID
}

// Status returns the canonical status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Items returns a copy of the ordered item list.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// PickupLocation returns the pickup point of the order.
func (o *Order) PickupLocation() kernel.GeoLocation {
	return o.pickupLocation
}

// ScheduledAt returns the scheduled pickup time, if any.
func (o *Order) ScheduledAt() *time.Time {
	return o.scheduledAt
}

// DeliveredAt returns the delivery completion time, if any.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// Subtotal returns the sum of the item line totals.
func (o *Order) Subtotal() float64 {
	return o.subtotal
}

// Discount returns the discount applied to the order.
func (o *Order) Discount() float64 {
	return o.discount
}

// FinalAmount returns the amount payable: subtotal less discount.
func (o *Order) FinalAmount() float64 {
	return o.finalAmount
}

// AdvanceTo moves the order to the target canonical status.
// The transition must be a forward move along the lifecycle path or a
// cancellation; anything else fails with a validation error and leaves the
// order unchanged. Entering a terminal state clears the rider reference and
// completing the order records the delivery time.
func (o *Order) AdvanceTo(target Status) error {
	if err := o.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.status = newStatus
	if newStatus.IsTerminal() {
		o.riderID = nil
	}
	if newStatus == Completed {
		now := time.Now()
		o.deliveredAt = &now
	}
	return nil
}

// Cancel terminates the order from any non-terminal state.
func (o *Order) Cancel() error {
	return o.AdvanceTo(Cancelled)
}

// AssignRider attaches a rider to the order and advances the status to the
// assignment state for the current leg: a created order moves to
// pickup_assigned, an order ready for delivery moves to delivery_assigned.
// Reassignment within the pickup_assigned or delivery_assigned states swaps
// the rider without a status change.
func (o *Order) AssignRider(riderID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := riderID.Validate(); err != nil {
		return err
	}

	switch o.status {
	case Created:
		if err := o.AdvanceTo(PickupAssigned); err != nil {
			return err
		}
	case ReadyForDelivery:
		if err := o.AdvanceTo(DeliveryAssigned); err != nil {
			return err
		}
	case PickupAssigned, DeliveryAssigned:
		// reassignment, status unchanged
	default:
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to assign a rider", o.status))
	}

	o.riderID = &riderID
	return nil
}

// AssignVendor attaches or replaces the vendor on a non-terminal order.
func (o *Order) AssignVendor(vendorID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := vendorID.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to assign a vendor", o.status))
	}

	o.vendorID = &vendorID
	return nil
}

// ApplyEdit replaces the item list of an in-flight order and recomputes the
// totals, keeping the existing discount. Used when a customer approves a
// rider-proposed edit. Fails on terminal orders and when the new totals
// would make the final amount negative.
func (o *Order) ApplyEdit(items []Item) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to edit items", o.status))
	}

	previous := o.items
	if err := o.setItems(items); err != nil {
		return err
	}
	if err := o.recalculateTotals(); err != nil {
		o.items = previous
		_ = o.recalculateTotals()
		return err
	}

	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setPickupLocation(location kernel.GeoLocation) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.pickupLocation = location
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, ok := seen[item.Name()]; ok {
			return errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("item name %q appears more than once", item.Name()))
		}
		seen[item.Name()] = struct{}{}
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setDiscount(discount float64) error {
	if discount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("discount",
			fmt.Errorf("%f is negative", discount))
	}
	o.discount = discount
	return nil
}

// recalculateTotals derives subtotal and final amount from the item lines.
func (o *Order) recalculateTotals() error {
	subtotal := SubtotalOf(o.items)
	final := subtotal - o.discount
	if final < 0 {
		return errs.NewValueIsInvalidErrorWithCause("finalAmount",
			fmt.Errorf("%f is negative", final))
	}

	o.subtotal = subtotal
	o.finalAmount = final
	return nil
}

// checkRiderWindow verifies the rider-reference invariant for a status.
func (o *Order) checkRiderWindow(status Status) error {
	switch status {
	case PickupAssigned, PickupCompleted, DeliveredToVendor, ReadyForDelivery, DeliveryAssigned:
		return nil
	default:
		return ErrRiderOutsideAssignmentWindow
	}
}
