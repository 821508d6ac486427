package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetActiveDeliveriesQueryIsNotConstructed = errors.New(
	"GetActiveDeliveriesQuery must be created via NewGetActiveDeliveriesQuery constructor",
)

// GetActiveDeliveriesQuery lists the deliveries a rider is currently working on.
type GetActiveDeliveriesQuery struct {
	riderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetActiveDeliveriesQuery(riderID kernel.UUID) (GetActiveDeliveriesQuery, error) {
	if err := riderID.Validate(); err != nil {
		return GetActiveDeliveriesQuery{}, err
	}
	return GetActiveDeliveriesQuery{riderID: riderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetActiveDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveDeliveriesQueryIsNotConstructed)
}

func (q GetActiveDeliveriesQuery) RiderID() kernel.UUID {
	return q.riderID
}

// ActiveDelivery is a delivery leg with the order fields a rider needs on the road.
type ActiveDelivery struct {
	ID                    kernel.UUID
	OrderID               kernel.UUID
	OrderNumber           string
	Status                string
	Pickup                kernel.Address
	Dropoff               kernel.Address
	RiderEarnings         kernel.Money
	DistanceKm            float64
	AssignedAt            time.Time
	EstimatedPickupTime   *time.Time
	EstimatedDeliveryTime *time.Time
}
