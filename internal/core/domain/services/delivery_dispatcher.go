package services

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/core/domain/model/store"
)

// DeliveryDispatcher commits a rider to an order. It creates the Delivery,
// occupies the rider and records the rider leg on the order.
type DeliveryDispatcher struct {
	splitter EarningsSplitter
}

func NewDeliveryDispatcher() DeliveryDispatcher {
	return DeliveryDispatcher{splitter: NewEarningsSplitter()}
}

// Dispatch validates the three aggregates and mutates all of them on success.
// manual relaxes the order status rule to also accept ready_for_pickup.
func (d DeliveryDispatcher) Dispatch(
	o *order.Order,
	s *store.Store,
	r *rider.Rider,
	assignedBy delivery.Actor,
	manual bool,
	now time.Time,
) (*delivery.Delivery, error) {
	if err := errors.Join(o.Validate(), s.Validate(), r.Validate()); err != nil {
		return nil, err
	}
	if err := o.ValidateRiderAssignment(manual); err != nil {
		return nil, err
	}
	if err := r.ValidateAssignable(); err != nil {
		return nil, err
	}

	storeLocation, err := s.Location()
	if err != nil {
		return nil, err
	}

	dropoff := o.DeliveryAddress()
	legKm := 0.0
	if dropoff.Coordinates != nil {
		if legKm, err = storeLocation.DistanceKm(*dropoff.Coordinates); err != nil {
			return nil, err
		}
	}

	fee := o.Pricing().DeliveryFee()
	riderEarnings, platformFee := d.splitter.Split(fee)
	pricing, err := delivery.NewPricing(fee, riderEarnings, platformFee, legKm)
	if err != nil {
		return nil, err
	}

	eta, err := EstimateETA(r.Vehicle(), r.CurrentLocation(), storeLocation, dropoff.Coordinates, now)
	if err != nil {
		return nil, err
	}

	dlv, err := delivery.NewDelivery(delivery.NewParams{
		ID:         kernel.NewUUID(),
		OrderID:    o.ID(),
		CustomerID: o.CustomerID(),
		VendorID:   o.VendorID(),
		RiderID:    r.ID(),
		Pickup:     s.Address(),
		Dropoff:    dropoff,
		Pricing:    pricing,
		AssignedBy: assignedBy,
	}, now)
	if err != nil {
		return nil, err
	}

	if err = r.TakeDelivery(); err != nil {
		return nil, err
	}
	if err = o.AssignRider(r.ID(), dlv.ID(), eta.Pickup, eta.Delivery, manual, now); err != nil {
		return nil, err
	}

	return dlv, nil
}

// Reassign moves an assigned delivery from oldRider to newRider.
func (d DeliveryDispatcher) Reassign(
	dlv *delivery.Delivery,
	o *order.Order,
	oldRider, newRider *rider.Rider,
	reason string,
	by delivery.Actor,
	now time.Time,
) error {
	if err := errors.Join(dlv.Validate(), o.Validate(), newRider.Validate()); err != nil {
		return err
	}
	if err := newRider.ValidateAssignable(); err != nil {
		return err
	}
	if _, err := dlv.Reassign(newRider.ID(), reason, by, now); err != nil {
		return err
	}
	if err := o.ReassignRider(newRider.ID(), now); err != nil {
		return err
	}
	if err := newRider.TakeDelivery(); err != nil {
		return err
	}
	if oldRider != nil {
		oldRider.ReleaseDelivery()
	}
	return nil
}
