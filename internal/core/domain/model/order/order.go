package order

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
	ErrRiderAlreadyAssigned  = errs.NewValueIsInvalidErrorWithCause("order", errors.New("a rider is already assigned"))
	ErrNotAssignedPicker     = errs.NewActionIsForbiddenError("picker is not assigned to this order")
	ErrNotOrderOwner         = errs.NewActionIsForbiddenError("order belongs to another customer")
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{4}-\d{6}$`)

// Event names recorded by Order.
const (
	EventOrderCreated    = "order:created"
	EventOrderConfirmed  = "order:confirmed"
	EventOrderCancelled  = "order:cancelled"
	EventOrderCompleted  = "order:completed"
	EventPickerAssigned  = "picking:assigned"
	EventPickingStarted  = "picking:started"
	EventPickingFinished = "picking:completed"
	EventOrderPacked     = "picking:packed"
)

// DeliveryInfo is the rider leg summary kept on the order.
type DeliveryInfo struct {
	RiderID               *kernel.UUID
	DeliveryID            *kernel.UUID
	AssignedAt            *time.Time
	EstimatedPickupTime   *time.Time
	EstimatedDeliveryTime *time.Time
	PickedUpAt            *time.Time
	CompletedAt           *time.Time
}

// Order is the aggregate root of the fulfillment flow. It owns the items, the
// pricing snapshot, the in-store picking sub-document and the rider leg summary.
//
// Status moves along two tracks sharing one state machine:
//
//	pending -> confirmed -> assigned_picker -> picking -> picked -> packing -> ready_for_pickup
//	confirmed | ready_for_pickup -> preparing -> picked_up -> in_transit -> delivered -> completed
//
// Any pre-pickup status may move to cancelled.
type Order struct {
	kernel.EventRecorder

	id                 kernel.UUID
	orderNumber        string
	customerID         kernel.UUID
	vendorID           kernel.UUID
	deliveryAddress    kernel.Address
	items              []Item
	pricing            Pricing
	status             Status
	picking            PickingInfo
	delivery           DeliveryInfo
	cancellationReason string
	createdAt          time.Time
	updatedAt          time.Time
	version            int64

	isConstructed bool
}

// NewOrder creates a pending order and derives its pricing from the items.
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	customerID, vendorID kernel.UUID,
	deliveryAddress kernel.Address,
	items []Item,
	pricing Pricing,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		picking:       newPicking(),
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setCustomerID(customerID),
		o.setVendorID(vendorID),
		o.setDeliveryAddress(deliveryAddress),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	o.pricing = pricing
	if err := o.RecomputePricing(); err != nil {
		return nil, err
	}

	o.Record(EventOrderCreated, o.id, now, map[string]any{"orderNumber": o.orderNumber})
	return o, nil
}

// RestoreParams carries persisted state back into an Order.
type RestoreParams struct {
	ID                 kernel.UUID
	OrderNumber        string
	CustomerID         kernel.UUID
	VendorID           kernel.UUID
	DeliveryAddress    kernel.Address
	Items              []Item
	Pricing            Pricing
	Status             Status
	Picking            PickingInfo
	Delivery           DeliveryInfo
	CancellationReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int64
}

// RestoreOrder rebuilds an order from storage. Pricing is recomputed, not trusted.
func RestoreOrder(p RestoreParams) (*Order, error) {
	o := &Order{
		pricing:            p.Pricing,
		picking:            p.Picking,
		delivery:           p.Delivery,
		cancellationReason: p.CancellationReason,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
		version:            p.Version,
		isConstructed:      true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setOrderNumber(p.OrderNumber),
		o.setCustomerID(p.CustomerID),
		o.setVendorID(p.VendorID),
		o.setDeliveryAddress(p.DeliveryAddress),
		o.setItems(p.Items),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = p.Status

	if err := o.RecomputePricing(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                 { return o.id }
func (o *Order) OrderNumber() string             { return o.orderNumber }
func (o *Order) CustomerID() kernel.UUID         { return o.customerID }
func (o *Order) VendorID() kernel.UUID           { return o.vendorID }
func (o *Order) DeliveryAddress() kernel.Address { return o.deliveryAddress }
func (o *Order) Pricing() Pricing                { return o.pricing }
func (o *Order) Status() Status                  { return o.status }
func (o *Order) Picking() PickingInfo            { return o.picking }
func (o *Order) Delivery() DeliveryInfo          { return o.delivery }
func (o *Order) CancellationReason() string      { return o.cancellationReason }
func (o *Order) CreatedAt() time.Time            { return o.createdAt }
func (o *Order) UpdatedAt() time.Time            { return o.updatedAt }
func (o *Order) Version() int64                  { return o.version }

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Rider returns the currently assigned rider, if any.
func (o *Order) Rider() *kernel.UUID {
	return o.delivery.RiderID
}

// HasRider reports whether a rider currently holds the order.
func (o *Order) HasRider() bool {
	return o.delivery.RiderID != nil
}

// IncrementVersion is called by repositories after a successful optimistic update.
func (o *Order) IncrementVersion() {
	o.version++
}

// RecomputePricing derives item subtotals, the pricing subtotal and the total.
// Repositories call it before every save.
func (o *Order) RecomputePricing() error {
	p, err := o.pricing.recompute(o.items)
	if err != nil {
		return err
	}
	o.pricing = p
	return nil
}

// Confirm is the vendor accepting a pending order.
func (o *Order) Confirm(now time.Time) error {
	if err := o.transition(Confirmed, now); err != nil {
		return err
	}
	o.Record(EventOrderConfirmed, o.id, now, nil)
	return nil
}

// Cancel stops the order before pickup. Releasing the rider and the delivery
// leg is the caller's job; Cancel clears the rider reference.
func (o *Order) Cancel(reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	if err := o.transition(Cancelled, now); err != nil {
		return err
	}
	o.cancellationReason = reason
	o.delivery.RiderID = nil
	o.Record(EventOrderCancelled, o.id, now, map[string]any{"reason": reason})
	return nil
}

// CompleteByCustomer closes a delivered order on behalf of its customer.
func (o *Order) CompleteByCustomer(customerID kernel.UUID, now time.Time) error {
	if !customerID.IsEqual(o.customerID) {
		return ErrNotOrderOwner
	}
	if err := o.transition(Completed, now); err != nil {
		return err
	}
	o.Record(EventOrderCompleted, o.id, now, nil)
	return nil
}

// ValidateRiderAssignment checks the order can take a rider. Auto-assignment
// requires confirmed; manual assignment also accepts ready_for_pickup.
func (o *Order) ValidateRiderAssignment(manual bool) error {
	if o.HasRider() {
		return ErrRiderAlreadyAssigned
	}
	if o.status == Confirmed || (manual && o.status == ReadyForPickup) {
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%s is not a valid status to assign a rider", o.status),
	)
}

// AssignRider records the rider leg and moves the order to preparing.
func (o *Order) AssignRider(
	riderID, deliveryID kernel.UUID,
	pickupETA, deliveryETA time.Time,
	manual bool,
	now time.Time,
) error {
	if err := errors.Join(riderID.Validate(), deliveryID.Validate()); err != nil {
		return err
	}
	if err := o.ValidateRiderAssignment(manual); err != nil {
		return err
	}
	if err := o.transition(Preparing, now); err != nil {
		return err
	}

	assignedAt := now
	o.delivery.RiderID = &riderID
	o.delivery.DeliveryID = &deliveryID
	o.delivery.AssignedAt = &assignedAt
	o.delivery.EstimatedPickupTime = &pickupETA
	o.delivery.EstimatedDeliveryTime = &deliveryETA
	return nil
}

// ReassignRider swaps the rider while the delivery is still assigned.
func (o *Order) ReassignRider(newRiderID kernel.UUID, now time.Time) error {
	if err := newRiderID.Validate(); err != nil {
		return err
	}
	if o.status != Preparing || !o.HasRider() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to reassign a rider", o.status),
		)
	}
	o.delivery.RiderID = &newRiderID
	o.updatedAt = now
	return nil
}

// RiderAccepted keeps the order in preparing once the rider accepts.
func (o *Order) RiderAccepted(now time.Time) error {
	return o.transition(Preparing, now)
}

// RiderRejected clears the rider and returns the order to confirmed.
func (o *Order) RiderRejected(now time.Time) error {
	if err := o.transition(Confirmed, now); err != nil {
		return err
	}
	o.delivery.RiderID = nil
	return nil
}

func (o *Order) MarkPickedUp(now time.Time) error {
	if err := o.transition(PickedUp, now); err != nil {
		return err
	}
	pickedUpAt := now
	o.delivery.PickedUpAt = &pickedUpAt
	return nil
}

func (o *Order) MarkInTransit(now time.Time) error {
	return o.transition(InTransit, now)
}

func (o *Order) MarkDelivered(now time.Time) error {
	if err := o.transition(Delivered, now); err != nil {
		return err
	}
	completedAt := now
	o.delivery.CompletedAt = &completedAt
	return nil
}

// AssignPicker hands the order to an in-store picker. A confirmed order moves
// to assigned_picker; a preparing order keeps its status.
func (o *Order) AssignPicker(pickerID kernel.UUID, now time.Time) error {
	if err := pickerID.Validate(); err != nil {
		return err
	}
	if o.status != Confirmed && o.status != Preparing {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to assign a picker", o.status),
		)
	}

	next, err := o.picking.Status.TransitionTo(PickingAssigned)
	if err != nil {
		return err
	}
	if o.status == Confirmed {
		if err = o.transition(AssignedPicker, now); err != nil {
			return err
		}
	}

	assignedAt := now
	o.picking.Status = next
	o.picking.PickerID = &pickerID
	o.picking.AssignedAt = &assignedAt
	o.picking.Items = make([]PickedItem, 0, len(o.items))
	for _, it := range o.items {
		o.picking.Items = append(o.picking.Items, PickedItem{
			ProductID: it.productID,
			Quantity:  it.quantity,
			Status:    ItemPending,
		})
	}
	o.updatedAt = now
	o.Record(EventPickerAssigned, o.id, now, map[string]any{"pickerId": pickerID.String()})
	return nil
}

func (o *Order) StartPicking(pickerID kernel.UUID, now time.Time) error {
	if err := o.ensurePicker(pickerID); err != nil {
		return err
	}
	next, err := o.picking.Status.TransitionTo(PickingInProgress)
	if err != nil {
		return err
	}
	if err = o.advancePickerBand(now, Picking); err != nil {
		return err
	}

	startedAt := now
	o.picking.Status = next
	o.picking.StartedAt = &startedAt
	o.updatedAt = now
	o.Record(EventPickingStarted, o.id, now, nil)
	return nil
}

// UpdatePickedItem records the outcome for one line while picking is in progress.
func (o *Order) UpdatePickedItem(pickerID kernel.UUID, productID string, update ItemUpdate, now time.Time) error {
	if err := o.ensurePicker(pickerID); err != nil {
		return err
	}
	if o.picking.Status != PickingInProgress {
		return errs.NewValueIsInvalidErrorWithCause(
			"picking.status",
			fmt.Errorf("items can only be updated while picking is in progress, got %s", o.picking.Status),
		)
	}
	if err := update.validate(); err != nil {
		return err
	}

	for i := range o.picking.Items {
		it := &o.picking.Items[i]
		if it.ProductID != productID {
			continue
		}
		pickedAt := now
		it.Status = update.Status
		it.SubstituteName = update.SubstituteName
		it.SubstitutePrice = update.SubstitutePrice
		it.Issue = update.Issue
		it.PickedAt = &pickedAt
		o.updatedAt = now
		return nil
	}
	return errs.NewObjectNotFoundError("item", productID)
}

// FinishPicking requires every line resolved.
func (o *Order) FinishPicking(pickerID kernel.UUID, now time.Time) error {
	if err := o.ensurePicker(pickerID); err != nil {
		return err
	}
	if !o.picking.IsResolved() {
		return errs.NewValueIsInvalidErrorWithCause("items", errors.New("every item must be picked, substituted or marked unavailable"))
	}
	next, err := o.picking.Status.TransitionTo(PickingCompleted)
	if err != nil {
		return err
	}
	if err = o.advancePickerBand(now, Picked); err != nil {
		return err
	}

	completedAt := now
	o.picking.Status = next
	o.picking.CompletedAt = &completedAt
	o.updatedAt = now
	o.Record(EventPickingFinished, o.id, now, map[string]any{"itemsPicked": o.picking.CountPicked()})
	return nil
}

// Pack closes picking; the order passes through packing to ready_for_pickup.
func (o *Order) Pack(pickerID kernel.UUID, now time.Time) error {
	if err := o.ensurePicker(pickerID); err != nil {
		return err
	}
	next, err := o.picking.Status.TransitionTo(PickingPacked)
	if err != nil {
		return err
	}
	if err = o.advancePickerBand(now, Packing, ReadyForPickup); err != nil {
		return err
	}

	packedAt := now
	o.picking.Status = next
	o.picking.PackedAt = &packedAt
	o.updatedAt = now
	o.Record(EventOrderPacked, o.id, now, nil)
	return nil
}

func (o *Order) ensurePicker(pickerID kernel.UUID) error {
	if o.picking.PickerID == nil || !o.picking.PickerID.IsEqual(pickerID) {
		return ErrNotAssignedPicker
	}
	return nil
}

// advancePickerBand walks the overall status through steps while the order is
// on the picking track. On the rider track (preparing) the status is left alone.
func (o *Order) advancePickerBand(now time.Time, steps ...Status) error {
	if o.status == Preparing {
		return nil
	}
	next := o.status
	for _, step := range steps {
		var err error
		if next, err = next.TransitionTo(step); err != nil {
			return err
		}
	}
	o.status = next
	o.updatedAt = now
	return nil
}

func (o *Order) transition(next Status, now time.Time) error {
	status, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}
	o.status = status
	o.updatedAt = now
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(number string) error {
	if !orderNumberPattern.MatchString(number) {
		return errs.NewValueIsInvalidErrorWithCause("orderNumber", fmt.Errorf("%q does not match ORD-YYYY-NNNNNN", number))
	}
	o.orderNumber = number
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setVendorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("vendorId", err)
	}
	o.vendorID = id
	return nil
}

func (o *Order) setDeliveryAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.deliveryAddress = address
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

// FormatOrderNumber renders the per-year sequence value.
func FormatOrderNumber(year int, seq int64) string {
	return fmt.Sprintf("ORD-%04d-%06d", year, seq)
}
