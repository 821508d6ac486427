package services

import (
	"math"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/rider"
)

const (
	defaultSpeedKmh = 20.0
	minLegDuration  = 5 * time.Minute
	// unknownLegAllowance is used when one end of a leg has no coordinates.
	unknownLegAllowance = 30 * time.Minute
)

var vehicleSpeedKmh = map[rider.VehicleType]float64{
	rider.Bicycle:    15,
	rider.Scooter:    25,
	rider.Motorcycle: 30,
	rider.Car:        25,
	rider.Van:        20,
}

// ETA is the estimated store arrival and doorstep arrival of a rider.
type ETA struct {
	Pickup   time.Time
	Delivery time.Time
}

// EstimateETA adds the rider->store leg to now and the store->dropoff leg to
// the pickup estimate. A nil endpoint uses a fixed allowance.
func EstimateETA(
	vehicle rider.VehicleType,
	riderLocation *kernel.GeoPoint,
	store kernel.GeoPoint,
	dropoff *kernel.GeoPoint,
	now time.Time,
) (ETA, error) {
	toStore, err := legDuration(vehicle, riderLocation, store)
	if err != nil {
		return ETA{}, err
	}
	toDoor, err := legDuration(vehicle, dropoff, store)
	if err != nil {
		return ETA{}, err
	}

	pickup := now.Add(toStore)
	return ETA{Pickup: pickup, Delivery: pickup.Add(toDoor)}, nil
}

// TravelDuration converts a distance to time at the vehicle's speed, never below five minutes.
func TravelDuration(vehicle rider.VehicleType, distanceKm float64) time.Duration {
	speed, ok := vehicleSpeedKmh[vehicle]
	if !ok {
		speed = defaultSpeedKmh
	}
	d := time.Duration(math.Round(distanceKm / speed * float64(time.Hour)))
	if d < minLegDuration {
		return minLegDuration
	}
	return d
}

func legDuration(vehicle rider.VehicleType, from *kernel.GeoPoint, to kernel.GeoPoint) (time.Duration, error) {
	if from == nil {
		return unknownLegAllowance, nil
	}
	km, err := from.DistanceKm(to)
	if err != nil {
		return 0, err
	}
	return TravelDuration(vehicle, km), nil
}
