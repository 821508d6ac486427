package commands

import (
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// RiderCandidate is one ranked rider considered for an order.
type RiderCandidate struct {
	RiderID    kernel.UUID
	Name       string
	Vehicle    string
	DistanceKm float64
	Score      float64
}

func candidateFrom(s services.ScoredRider) RiderCandidate {
	return RiderCandidate{
		RiderID:    s.Rider.ID(),
		Name:       s.Rider.Name(),
		Vehicle:    s.Rider.Vehicle().String(),
		DistanceKm: s.DistanceKm,
		Score:      s.Score,
	}
}

// AssignmentResult is what a successful rider assignment produced.
type AssignmentResult struct {
	Delivery   *delivery.Delivery
	Order      *order.Order
	Rider      RiderCandidate
	Candidates []RiderCandidate
}

// deliveryAudience addresses the rider, the customer and the vendor of a leg.
func deliveryAudience(o *order.Order, riders ...*kernel.UUID) Audience {
	customer := o.CustomerID()
	return Audience{
		Users:   append(riders, &customer),
		Vendors: []kernel.UUID{o.VendorID()},
	}
}

func collectEvents(recorders ...interface{ PullEvents() []kernel.DomainEvent }) []kernel.DomainEvent {
	var events []kernel.DomainEvent
	for _, r := range recorders {
		events = append(events, r.PullEvents()...)
	}
	return events
}
