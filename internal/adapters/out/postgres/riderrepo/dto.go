package riderrepo

import (
	"errors"
	"fmt"

	"fulfillment/internal/adapters/out/postgres/columns"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/rider"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RiderDTO is the riders row. Connected vendor ids are a text array.
type RiderDTO struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name            string         `gorm:"type:varchar(255);not null"`
	IsActive        bool           `gorm:"not null"`
	Verification    string         `gorm:"size:16;not null"`
	IsAvailable     bool           `gorm:"not null;index"`
	Vehicle         string         `gorm:"size:16;not null"`
	ConnectedStores pq.StringArray `gorm:"type:text[]"`
	Location        columns.GeoDTO `gorm:"embedded;embeddedPrefix:location_"`
	Stats           StatsDTO       `gorm:"embedded;embeddedPrefix:stats_"`
	Version         int64          `gorm:"not null;default:0"`
}

func (RiderDTO) TableName() string {
	return "riders"
}

type StatsDTO struct {
	ActiveDeliveries    int
	CompletedDeliveries int
	Rating              float64
	TotalEarnings       int64
}

func fromDomain(r *rider.Rider) RiderDTO {
	stores := make(pq.StringArray, 0, len(r.ConnectedStores()))
	for _, id := range r.ConnectedStores() {
		stores = append(stores, id.String())
	}
	stats := r.Stats()

	return RiderDTO{
		ID:              r.ID().Bytes(),
		Name:            r.Name(),
		IsActive:        r.IsActive(),
		Verification:    string(r.Verification()),
		IsAvailable:     r.IsAvailable(),
		Vehicle:         r.Vehicle().String(),
		ConnectedStores: stores,
		Location:        columns.FromGeo(r.CurrentLocation()),
		Stats: StatsDTO{
			ActiveDeliveries:    stats.ActiveDeliveries,
			CompletedDeliveries: stats.CompletedDeliveries,
			Rating:              stats.Rating,
			TotalEarnings:       int64(stats.TotalEarnings),
		},
		Version: r.Version(),
	}
}

func toDomain(dto RiderDTO) (*rider.Rider, error) {
	id, err := columns.KernelUUID(dto.ID)
	if err != nil {
		return nil, err
	}

	stores := make([]kernel.UUID, 0, len(dto.ConnectedStores))
	for _, s := range dto.ConnectedStores {
		vendorID, parseErr := kernel.UUIDFromString(s)
		if parseErr != nil {
			return nil, fmt.Errorf("rider %s: connected store: %w", id, parseErr)
		}
		stores = append(stores, vendorID)
	}

	verification, verificationErr := rider.ParseVerificationStatus(dto.Verification)
	vehicle, vehicleErr := rider.ParseVehicleType(dto.Vehicle)
	location, locationErr := dto.Location.ToGeo()
	if err = errors.Join(verificationErr, vehicleErr, locationErr); err != nil {
		return nil, fmt.Errorf("rider %s: %w", id, err)
	}

	return rider.RestoreRider(rider.RestoreParams{
		ID:              id,
		Name:            dto.Name,
		IsActive:        dto.IsActive,
		Verification:    verification,
		IsAvailable:     dto.IsAvailable,
		Vehicle:         vehicle,
		ConnectedStores: stores,
		CurrentLocation: location,
		Stats: rider.Stats{
			ActiveDeliveries:    dto.Stats.ActiveDeliveries,
			CompletedDeliveries: dto.Stats.CompletedDeliveries,
			Rating:              dto.Stats.Rating,
			TotalEarnings:       kernel.Money(dto.Stats.TotalEarnings),
		},
		Version: dto.Version,
	})
}
