package delivery

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")
	ErrNotDeliveryRider         = errs.NewActionIsForbiddenError("delivery is assigned to another rider")
)

// Event names recorded by Delivery.
const (
	EventAssigned      = "delivery:assigned"
	EventAccepted      = "delivery:accepted"
	EventRejected      = "delivery:rejected"
	EventPickedUp      = "delivery:picked_up"
	EventInTransit     = "delivery:in_transit"
	EventDelivered     = "delivery:delivered"
	EventIssueReported = "delivery:issue_reported"
	EventReassigned    = "delivery:reassigned"
	EventCancelled     = "delivery:cancelled"
)

// Delivery is the rider transport leg of an order: store to customer.
// Every state change appends a timeline entry and records a domain event.
type Delivery struct {
	kernel.EventRecorder

	id         kernel.UUID
	orderID    kernel.UUID
	customerID kernel.UUID
	vendorID   kernel.UUID
	riderID    *kernel.UUID

	pickup  kernel.Address
	dropoff kernel.Address
	pricing Pricing
	status  Status

	timeline    []TimelineEntry
	proof       *Proof
	pickupProof PickupProof
	issues      []Issue

	assignedAt      time.Time
	acceptedAt      *time.Time
	pickedUpAt      *time.Time
	inTransitAt     *time.Time
	deliveredAt     *time.Time
	rejectedAt      *time.Time
	rejectionReason string

	createdAt time.Time
	updatedAt time.Time
	version   int64

	isConstructed bool
}

// NewParams describes a freshly committed rider assignment.
type NewParams struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	VendorID   kernel.UUID
	RiderID    kernel.UUID
	Pickup     kernel.Address
	Dropoff    kernel.Address
	Pricing    Pricing
	AssignedBy Actor
}

// NewDelivery creates an assigned delivery with its first timeline entry.
func NewDelivery(p NewParams, now time.Time) (*Delivery, error) {
	d := &Delivery{
		status:        Assigned,
		pricing:       p.Pricing,
		assignedAt:    now,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	var riderErr error
	if err := p.RiderID.Validate(); err != nil {
		riderErr = errs.NewValueIsRequiredErrorWithCause("riderId", err)
	}
	if err := errors.Join(
		d.setID(p.ID),
		d.setRef(&d.orderID, "orderId", p.OrderID),
		d.setRef(&d.customerID, "customerId", p.CustomerID),
		d.setRef(&d.vendorID, "vendorId", p.VendorID),
		riderErr,
		p.Pickup.Validate(),
		p.Dropoff.Validate(),
	); err != nil {
		return nil, err
	}

	riderID := p.RiderID
	d.riderID = &riderID
	d.pickup = p.Pickup
	d.dropoff = p.Dropoff
	d.appendTimeline(Assigned.String(), &p.AssignedBy, nil, "", now)
	d.record(EventAssigned, now, nil)
	return d, nil
}

// RestoreParams carries persisted state back into a Delivery.
type RestoreParams struct {
	ID              kernel.UUID
	OrderID         kernel.UUID
	CustomerID      kernel.UUID
	VendorID        kernel.UUID
	RiderID         *kernel.UUID
	Pickup          kernel.Address
	Dropoff         kernel.Address
	Pricing         Pricing
	Status          Status
	Timeline        []TimelineEntry
	Proof           *Proof
	PickupProof     PickupProof
	Issues          []Issue
	AssignedAt      time.Time
	AcceptedAt      *time.Time
	PickedUpAt      *time.Time
	InTransitAt     *time.Time
	DeliveredAt     *time.Time
	RejectedAt      *time.Time
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
}

func RestoreDelivery(p RestoreParams) (*Delivery, error) {
	d := &Delivery{
		riderID:         p.RiderID,
		pickup:          p.Pickup,
		dropoff:         p.Dropoff,
		pricing:         p.Pricing,
		status:          p.Status,
		timeline:        p.Timeline,
		proof:           p.Proof,
		pickupProof:     p.PickupProof,
		issues:          p.Issues,
		assignedAt:      p.AssignedAt,
		acceptedAt:      p.AcceptedAt,
		pickedUpAt:      p.PickedUpAt,
		inTransitAt:     p.InTransitAt,
		deliveredAt:     p.DeliveredAt,
		rejectedAt:      p.RejectedAt,
		rejectionReason: p.RejectionReason,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
		version:         p.Version,
		isConstructed:   true,
	}

	if err := errors.Join(
		d.setID(p.ID),
		d.setRef(&d.orderID, "orderId", p.OrderID),
		d.setRef(&d.customerID, "customerId", p.CustomerID),
		d.setRef(&d.vendorID, "vendorId", p.VendorID),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id.IsEqual(other.id)
}

func (d *Delivery) ID() kernel.UUID          { return d.id }
func (d *Delivery) OrderID() kernel.UUID     { return d.orderID }
func (d *Delivery) CustomerID() kernel.UUID  { return d.customerID }
func (d *Delivery) VendorID() kernel.UUID    { return d.vendorID }
func (d *Delivery) RiderID() *kernel.UUID    { return d.riderID }
func (d *Delivery) Pickup() kernel.Address   { return d.pickup }
func (d *Delivery) Dropoff() kernel.Address  { return d.dropoff }
func (d *Delivery) Pricing() Pricing         { return d.pricing }
func (d *Delivery) Status() Status           { return d.status }
func (d *Delivery) Proof() *Proof            { return d.proof }
func (d *Delivery) PickupProof() PickupProof { return d.pickupProof }
func (d *Delivery) AssignedAt() time.Time    { return d.assignedAt }
func (d *Delivery) AcceptedAt() *time.Time   { return d.acceptedAt }
func (d *Delivery) PickedUpAt() *time.Time   { return d.pickedUpAt }
func (d *Delivery) InTransitAt() *time.Time  { return d.inTransitAt }
func (d *Delivery) DeliveredAt() *time.Time  { return d.deliveredAt }
func (d *Delivery) RejectedAt() *time.Time   { return d.rejectedAt }
func (d *Delivery) RejectionReason() string  { return d.rejectionReason }
func (d *Delivery) CreatedAt() time.Time     { return d.createdAt }
func (d *Delivery) UpdatedAt() time.Time     { return d.updatedAt }
func (d *Delivery) Version() int64           { return d.version }

func (d *Delivery) Timeline() []TimelineEntry {
	out := make([]TimelineEntry, len(d.timeline))
	copy(out, d.timeline)
	return out
}

func (d *Delivery) Issues() []Issue {
	out := make([]Issue, len(d.issues))
	copy(out, d.issues)
	return out
}

// IncrementVersion is called by repositories after a successful optimistic update.
func (d *Delivery) IncrementVersion() {
	d.version++
}

// IsRider reports whether riderID currently holds the delivery.
func (d *Delivery) IsRider(riderID kernel.UUID) bool {
	return d.riderID != nil && d.riderID.IsEqual(riderID)
}

// Accept is the rider confirming the assignment.
func (d *Delivery) Accept(riderID kernel.UUID, location *kernel.GeoPoint, now time.Time) error {
	if err := d.transition(riderID, Accepted, now); err != nil {
		return err
	}
	d.acceptedAt = &now
	d.appendTimeline(Accepted.String(), riderActor(riderID), location, "", now)
	d.record(EventAccepted, now, nil)
	return nil
}

// Reject is the rider declining an assigned delivery. The rider is cleared.
// The reason is optional.
func (d *Delivery) Reject(riderID kernel.UUID, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if !d.IsRider(riderID) {
		return ErrNotDeliveryRider
	}
	if d.status != Assigned {
		return d.statusError("reject")
	}
	if err := d.transition(riderID, Rejected, now); err != nil {
		return err
	}
	d.rejectedAt = &now
	d.rejectionReason = reason
	d.riderID = nil
	d.appendTimeline(Rejected.String(), riderActor(riderID), nil, reason, now)
	d.record(EventRejected, now, map[string]any{"riderId": riderID.String(), "reason": reason})
	return nil
}

// PickUp records the rider collecting the goods from the store.
func (d *Delivery) PickUp(riderID kernel.UUID, photos []string, location *kernel.GeoPoint, now time.Time) error {
	if err := d.transition(riderID, PickedUp, now); err != nil {
		return err
	}
	d.pickedUpAt = &now
	d.pickupProof = PickupProof{Photos: photos, Location: location}
	d.appendTimeline(PickedUp.String(), riderActor(riderID), location, "", now)
	d.record(EventPickedUp, now, nil)
	return nil
}

func (d *Delivery) MarkInTransit(riderID kernel.UUID, location *kernel.GeoPoint, now time.Time) error {
	if err := d.transition(riderID, InTransit, now); err != nil {
		return err
	}
	d.inTransitAt = &now
	d.appendTimeline(InTransit.String(), riderActor(riderID), location, "", now)
	d.record(EventInTransit, now, nil)
	return nil
}

// Complete hands the goods over. Proof must carry at least one photo.
func (d *Delivery) Complete(riderID kernel.UUID, proof Proof, now time.Time) error {
	if len(proof.photos) == 0 {
		return errs.NewValueIsRequiredError("photos")
	}
	if err := d.transition(riderID, Delivered, now); err != nil {
		return err
	}
	d.deliveredAt = &now
	d.proof = &proof
	d.appendTimeline(Delivered.String(), riderActor(riderID), proof.location, proof.notes, now)
	d.record(EventDelivered, now, map[string]any{"riderEarnings": int64(d.pricing.riderEarnings)})
	return nil
}

// ReportIssue appends an issue in any status without changing it.
func (d *Delivery) ReportIssue(riderID kernel.UUID, issueType, description string, location *kernel.GeoPoint, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if !d.IsRider(riderID) {
		return ErrNotDeliveryRider
	}
	var typeErr, descErr error
	if strings.TrimSpace(issueType) == "" {
		typeErr = errs.NewValueIsRequiredError("type")
	}
	if strings.TrimSpace(description) == "" {
		descErr = errs.NewValueIsRequiredError("description")
	}
	if err := errors.Join(typeErr, descErr); err != nil {
		return err
	}

	d.issues = append(d.issues, Issue{Type: issueType, Description: description, Location: location, ReportedAt: now})
	d.appendTimeline(MarkerIssueReported, riderActor(riderID), location, issueType+": "+description, now)
	d.updatedAt = now
	d.record(EventIssueReported, now, map[string]any{"type": issueType, "description": description})
	return nil
}

// Reassign hands an assigned delivery to another rider. It returns the rider
// that was released.
func (d *Delivery) Reassign(newRiderID kernel.UUID, reason string, by Actor, now time.Time) (kernel.UUID, error) {
	if err := errors.Join(d.Validate(), newRiderID.Validate()); err != nil {
		return kernel.UUID{}, err
	}
	if d.status != Assigned || d.riderID == nil {
		return kernel.UUID{}, d.statusError("reassign")
	}
	if d.riderID.IsEqual(newRiderID) {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("newRiderId", errors.New("rider already holds this delivery"))
	}

	previous := *d.riderID
	d.riderID = &newRiderID
	d.assignedAt = now
	d.updatedAt = now
	d.appendTimeline(MarkerReassigned, &by, nil, reason, now)
	d.record(EventReassigned, now, map[string]any{
		"previousRiderId": previous.String(),
		"reason":          reason,
	})
	return previous, nil
}

// Cancel rejects a delivery whose order was cancelled before pickup. It returns
// the rider that was released, if any.
func (d *Delivery) Cancel(reason string, by Actor, now time.Time) (*kernel.UUID, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	next, err := d.status.TransitionTo(Rejected)
	if err != nil {
		return nil, err
	}

	released := d.riderID
	d.status = next
	d.rejectedAt = &now
	d.rejectionReason = reason
	d.riderID = nil
	d.updatedAt = now
	d.appendTimeline(MarkerCancelled, &by, nil, reason, now)
	d.record(EventCancelled, now, map[string]any{"reason": reason})
	return released, nil
}

func (d *Delivery) transition(riderID kernel.UUID, next Status, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if !d.IsRider(riderID) {
		return ErrNotDeliveryRider
	}
	status, err := d.status.TransitionTo(next)
	if err != nil {
		return err
	}
	d.status = status
	d.updatedAt = now
	return nil
}

func (d *Delivery) statusError(action string) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		errors.New(d.status.String()+" is not a valid status to "+action),
	)
}

func (d *Delivery) appendTimeline(status string, by *Actor, location *kernel.GeoPoint, note string, at time.Time) {
	entry := TimelineEntry{Status: status, Location: location, Note: note, At: at}
	if by != nil {
		id := by.ID
		entry.ActorID = &id
		entry.ActorRole = by.Role
	}
	d.timeline = append(d.timeline, entry)
}

func (d *Delivery) record(name string, at time.Time, extra map[string]any) {
	payload := map[string]any{
		"deliveryId": d.id.String(),
		"orderId":    d.orderID.String(),
		"status":     d.status.String(),
	}
	if d.riderID != nil {
		payload["riderId"] = d.riderID.String()
	}
	for k, v := range extra {
		payload[k] = v
	}
	d.Record(name, d.id, at, payload)
}

func riderActor(id kernel.UUID) *Actor {
	return &Actor{ID: id, Role: ActorRider}
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setRef(dst *kernel.UUID, name string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	*dst = id
	return nil
}
