package kernel

import (
	"errors"
	"fmt"
	"math"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is an immutable WGS84 coordinate pair.
//
// Example:
//
//	store, _ := kernel.NewGeoPoint(6.5244, 3.3792)
//	rider, _ := kernel.NewGeoPoint(6.4550, 3.3941)
//	km, _ := store.DistanceKm(rider) // ~7.8
type GeoPoint struct { //nolint:recvcheck //pointer setters used during construction only
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint validates latitude in [-90, 90] and longitude in [-180, 180].
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	p := GeoPoint{guard: guard.NewConstructorGuard()}
	if err := errors.Join(p.setLat(lat), p.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}
	return p, nil
}

// NewOptionalGeoPoint returns nil when either coordinate is missing.
func NewOptionalGeoPoint(lat, lng *float64) (*GeoPoint, error) {
	if lat == nil || lng == nil {
		return nil, nil //nolint:nilnil // absent point is not an error
	}
	p, err := NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) Lat() float64 {
	return p.lat
}

func (p GeoPoint) Lng() float64 {
	return p.lng
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lng)
}

func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.lat == other.lat && p.lng == other.lng
}

// DistanceKm returns the great-circle distance using the Haversine formula.
// The result is symmetric and zero for identical points.
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}
	return haversineKm(p.lat, p.lng, other.lat, other.lng), nil
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func (p *GeoPoint) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("lat", lat, MinLatitude, MaxLatitude)
	}
	p.lat = lat
	return nil
}

func (p *GeoPoint) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < MinLongitude || lng > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("lng", lng, MinLongitude, MaxLongitude)
	}
	p.lng = lng
	return nil
}
