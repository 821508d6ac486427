package rider

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrRiderIsNotConstructed = errors.New("Rider must be created via NewRider constructor")
	ErrRiderIsInactive       = errs.NewValueIsInvalidErrorWithCause("rider", errors.New("rider account is inactive"))
	ErrRiderIsNotVerified    = errs.NewValueIsInvalidErrorWithCause("rider", errors.New("rider is not verified"))
	ErrRiderIsNotAvailable   = errs.NewValueIsInvalidErrorWithCause("rider", errors.New("rider is not available"))
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Stats are the rider's running delivery counters.
type Stats struct {
	ActiveDeliveries    int
	CompletedDeliveries int
	Rating              float64
	TotalEarnings       kernel.Money
}

// Rider is a delivery rider as seen by the fulfillment core: eligibility,
// vehicle, last known position and counters. Profile data lives elsewhere.
type Rider struct {
	id              kernel.UUID
	name            string
	isActive        bool
	verification    VerificationStatus
	isAvailable     bool
	vehicle         VehicleType
	connectedStores []kernel.UUID
	currentLocation *kernel.GeoPoint
	stats           Stats
	version         int64
	guard           guard.ConstructorGuard
}

// NewRider registers an active, available rider awaiting verification.
func NewRider(id kernel.UUID, name string, vehicle VehicleType) (*Rider, error) {
	r := &Rider{
		isActive:     true,
		isAvailable:  true,
		verification: VerificationPending,
		guard:        guard.NewConstructorGuard(),
	}
	if err := errors.Join(r.setID(id), r.setName(name), r.setVehicle(vehicle)); err != nil {
		return nil, err
	}
	return r, nil
}

// RestoreParams carries persisted rider state.
type RestoreParams struct {
	ID              kernel.UUID
	Name            string
	IsActive        bool
	Verification    VerificationStatus
	IsAvailable     bool
	Vehicle         VehicleType
	ConnectedStores []kernel.UUID
	CurrentLocation *kernel.GeoPoint
	Stats           Stats
	Version         int64
}

func RestoreRider(p RestoreParams) (*Rider, error) {
	r := &Rider{
		isActive:        p.IsActive,
		verification:    p.Verification,
		isAvailable:     p.IsAvailable,
		connectedStores: p.ConnectedStores,
		currentLocation: p.CurrentLocation,
		version:         p.Version,
		guard:           guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		r.setID(p.ID),
		r.setName(p.Name),
		r.setVehicle(p.Vehicle),
		r.setStats(p.Stats),
	); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rider) Validate() error {
	if r == nil {
		return ErrRiderIsNotConstructed
	}
	return r.guard.Validate(ErrRiderIsNotConstructed)
}

func (r *Rider) IsEqual(other *Rider) bool {
	return other != nil && r.id.IsEqual(other.id)
}

func (r *Rider) ID() kernel.UUID {
	return r.id
}

func (r *Rider) Name() string {
	return r.name
}

func (r *Rider) IsActive() bool {
	return r.isActive
}

func (r *Rider) Verification() VerificationStatus {
	return r.verification
}

func (r *Rider) IsAvailable() bool {
	return r.isAvailable
}

func (r *Rider) Vehicle() VehicleType {
	return r.vehicle
}

func (r *Rider) CurrentLocation() *kernel.GeoPoint {
	return r.currentLocation
}

func (r *Rider) Stats() Stats {
	return r.stats
}

func (r *Rider) Version() int64 {
	return r.version
}

func (r *Rider) IncrementVersion() {
	r.version++
}

func (r *Rider) ConnectedStores() []kernel.UUID {
	out := make([]kernel.UUID, len(r.connectedStores))
	copy(out, r.connectedStores)
	return out
}

// IsConnectedTo reports whether the rider is linked to the vendor's store.
func (r *Rider) IsConnectedTo(vendorID kernel.UUID) bool {
	for _, s := range r.connectedStores {
		if s.IsEqual(vendorID) {
			return true
		}
	}
	return false
}

// IsEligible reports whether the rider may be offered a delivery.
// vehicle == "" matches any vehicle.
func (r *Rider) IsEligible(vehicle VehicleType) bool {
	return r.ValidateAssignable() == nil && (vehicle == "" || r.vehicle == vehicle)
}

// ValidateAssignable checks active, verified and available, in that order.
func (r *Rider) ValidateAssignable() error {
	if err := r.Validate(); err != nil {
		return err
	}
	switch {
	case !r.isActive:
		return ErrRiderIsInactive
	case r.verification != VerificationVerified:
		return ErrRiderIsNotVerified
	case !r.isAvailable:
		return ErrRiderIsNotAvailable
	default:
		return nil
	}
}

// TakeDelivery occupies the rider with a new delivery.
func (r *Rider) TakeDelivery() error {
	if err := r.ValidateAssignable(); err != nil {
		return err
	}
	r.stats.ActiveDeliveries++
	r.isAvailable = false
	return nil
}

// ReleaseDelivery frees the rider after a rejection, reassignment or cancellation.
func (r *Rider) ReleaseDelivery() {
	if r.stats.ActiveDeliveries > 0 {
		r.stats.ActiveDeliveries--
	}
	r.isAvailable = true
}

// CompleteDelivery books the earnings of a delivered order and frees the rider.
func (r *Rider) CompleteDelivery(earnings kernel.Money) error {
	total, err := r.stats.TotalEarnings.Plus(earnings)
	if err != nil {
		return err
	}
	r.stats.CompletedDeliveries++
	r.stats.TotalEarnings = total
	r.ReleaseDelivery()
	return nil
}

func (r *Rider) UpdateLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	r.currentLocation = &location
	return nil
}

func (r *Rider) Verify() {
	r.verification = VerificationVerified
}

func (r *Rider) ConnectStore(vendorID kernel.UUID) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}
	if !r.IsConnectedTo(vendorID) {
		r.connectedStores = append(r.connectedStores, vendorID)
	}
	return nil
}

func (r *Rider) Deactivate() {
	r.isActive = false
	r.isAvailable = false
}

func (r *Rider) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Rider) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	r.name = name
	return nil
}

func (r *Rider) setVehicle(v VehicleType) error {
	if _, err := ParseVehicleType(string(v)); err != nil {
		return err
	}
	r.vehicle = v
	return nil
}

func (r *Rider) setStats(s Stats) error {
	if s.Rating < MinRating || s.Rating > MaxRating {
		return errs.NewValueIsOutOfRangeError("rating", s.Rating, MinRating, MaxRating)
	}
	if s.ActiveDeliveries < 0 || s.CompletedDeliveries < 0 {
		return errs.NewValueIsInvalidErrorWithCause("stats", fmt.Errorf("negative counters %+v", s))
	}
	r.stats = s
	return nil
}
