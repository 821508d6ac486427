// Package queries contains the read side of the fulfillment service. Handlers
// read straight from the database and return flat read models.
package queries

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const maxSearchRadiusKm = 200.0

var ErrGetAvailableRidersQueryIsNotConstructed = errors.New(
	"GetAvailableRidersQuery must be created via NewGetAvailableRidersQuery constructor",
)

// GetAvailableRidersQuery lists eligible riders around a vendor's store.
//
// Example:
//
//	query, err := NewGetAvailableRidersQuery(vendorID, "motorcycle", nil, requester)
//	if err != nil {
//	    return err
//	}
//	riders, err := handler.Handle(ctx, query)
type GetAvailableRidersQuery struct {
	vendorID  kernel.UUID
	vehicle   rider.VehicleType
	radiusKm  float64
	requester commands.Requester

	guard guard.ConstructorGuard
}

// NewGetAvailableRidersQuery defaults the radius to services.DefaultSearchRadiusKm
// and accepts an empty vehicle as "any".
func NewGetAvailableRidersQuery(
	vendorID kernel.UUID,
	vehicle string,
	radiusKm *float64,
	requester commands.Requester,
) (GetAvailableRidersQuery, error) {
	q := GetAvailableRidersQuery{
		radiusKm: services.DefaultSearchRadiusKm,
		guard:    guard.NewConstructorGuard(),
	}

	var vehicleErr error
	if vehicle != "" {
		q.vehicle, vehicleErr = rider.ParseVehicleType(vehicle)
	}

	var radiusErr error
	if radiusKm != nil {
		if *radiusKm <= 0 || *radiusKm > maxSearchRadiusKm {
			radiusErr = errs.NewValueIsOutOfRangeError("radius", *radiusKm, 0, maxSearchRadiusKm)
		} else {
			q.radiusKm = *radiusKm
		}
	}

	if err := errors.Join(vendorID.Validate(), vehicleErr, radiusErr, requester.Validate()); err != nil {
		return GetAvailableRidersQuery{}, fmt.Errorf("available riders query: %w", err)
	}
	q.vendorID = vendorID
	q.requester = requester

	return q, nil
}

func (q GetAvailableRidersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableRidersQueryIsNotConstructed)
}

func (q GetAvailableRidersQuery) VendorID() kernel.UUID {
	return q.vendorID
}

func (q GetAvailableRidersQuery) Vehicle() rider.VehicleType {
	return q.vehicle
}

func (q GetAvailableRidersQuery) RadiusKm() float64 {
	return q.radiusKm
}

func (q GetAvailableRidersQuery) Requester() commands.Requester {
	return q.requester
}

// AvailableRider is one ranked rider in the listing.
type AvailableRider struct {
	ID                  kernel.UUID
	Name                string
	Vehicle             string
	Rating              float64
	ActiveDeliveries    int
	CompletedDeliveries int
	Location            *kernel.GeoPoint
	ConnectedToStore    bool
	DistanceKm          float64
	Score               float64
}
