package queries

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/core/domain/model/store"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetAvailableRidersQueryHandler ranks riders with the same scorer as
// auto-assignment and keeps those within the requested radius.
type GetAvailableRidersQueryHandler struct {
	db     *gorm.DB
	scorer services.RiderScorer
}

func NewGetAvailableRidersQueryHandler(db *gorm.DB) GetAvailableRidersQueryHandler {
	return GetAvailableRidersQueryHandler{db: db, scorer: services.NewRiderScorer()}
}

func (h GetAvailableRidersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableRidersQuery,
) ([]AvailableRider, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := query.Requester().CanManageVendor(query.VendorID()); err != nil {
		return nil, err
	}

	storeLocation, err := h.storeLocation(ctx, query.VendorID())
	if err != nil {
		return nil, err
	}

	riders, err := h.eligibleRiders(ctx, query.Vehicle())
	if err != nil {
		return nil, err
	}

	ranked, err := h.scorer.Rank(riders, query.VendorID(), storeLocation, query.Vehicle())
	if err != nil {
		return nil, err
	}

	result := make([]AvailableRider, 0, len(ranked))
	for _, s := range services.WithinRadius(ranked, query.RadiusKm()) {
		stats := s.Rider.Stats()
		result = append(result, AvailableRider{
			ID:                  s.Rider.ID(),
			Name:                s.Rider.Name(),
			Vehicle:             s.Rider.Vehicle().String(),
			Rating:              stats.Rating,
			ActiveDeliveries:    stats.ActiveDeliveries,
			CompletedDeliveries: stats.CompletedDeliveries,
			Location:            s.Rider.CurrentLocation(),
			ConnectedToStore:    s.Rider.IsConnectedTo(query.VendorID()),
			DistanceKm:          s.DistanceKm,
			Score:               s.Score,
		})
	}

	return result, nil
}

func (h GetAvailableRidersQueryHandler) storeLocation(ctx context.Context, vendorID kernel.UUID) (kernel.GeoPoint, error) {
	var row struct {
		Lat *float64
		Lng *float64
	}
	res := h.db.WithContext(ctx).Raw(`
		SELECT address_lat AS lat, address_lng AS lng
		FROM vendor_stores
		WHERE id = ?
	`, vendorID.Bytes()).Scan(&row)
	if res.Error != nil {
		return kernel.GeoPoint{}, res.Error
	}
	if res.RowsAffected == 0 {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("store", vendorID.String())
	}

	location, err := kernel.NewOptionalGeoPoint(row.Lat, row.Lng)
	if err != nil {
		return kernel.GeoPoint{}, err
	}
	if location == nil {
		return kernel.GeoPoint{}, store.ErrStoreHasNoCoordinates
	}
	return *location, nil
}

func (h GetAvailableRidersQueryHandler) eligibleRiders(ctx context.Context, vehicle rider.VehicleType) ([]*rider.Rider, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			vehicle,
			connected_stores,
			location_lat,
			location_lng,
			stats_active_deliveries,
			stats_completed_deliveries,
			stats_rating,
			stats_total_earnings
		FROM riders
		WHERE is_active AND is_available AND verification = ?
			AND (? = '' OR vehicle = ?)
		ORDER BY id
	`, string(rider.VerificationVerified), string(vehicle), string(vehicle)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	riders := make([]*rider.Rider, 0)
	for rows.Next() {
		var (
			id               uuid.UUID
			name, vehicleStr string
			connected        pq.StringArray
			lat, lng         *float64
			stats            rider.Stats
			earnings         int64
		)
		if err = rows.Scan(
			&id,
			&name,
			&vehicleStr,
			&connected,
			&lat,
			&lng,
			&stats.ActiveDeliveries,
			&stats.CompletedDeliveries,
			&stats.Rating,
			&earnings,
		); err != nil {
			return nil, err
		}
		stats.TotalEarnings = kernel.Money(earnings)

		r, restoreErr := restoreEligibleRider(id, name, vehicleStr, connected, lat, lng, stats)
		if restoreErr != nil {
			return nil, restoreErr
		}
		riders = append(riders, r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return riders, nil
}

func restoreEligibleRider(
	id uuid.UUID,
	name, vehicle string,
	connected []string,
	lat, lng *float64,
	stats rider.Stats,
) (*rider.Rider, error) {
	riderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	v, err := rider.ParseVehicleType(vehicle)
	if err != nil {
		return nil, fmt.Errorf("rider %s: %w", riderID, err)
	}
	location, err := kernel.NewOptionalGeoPoint(lat, lng)
	if err != nil {
		return nil, fmt.Errorf("rider %s: %w", riderID, err)
	}

	stores := make([]kernel.UUID, 0, len(connected))
	for _, s := range connected {
		vendorID, parseErr := kernel.UUIDFromString(s)
		if parseErr != nil {
			return nil, fmt.Errorf("rider %s: connected store: %w", riderID, parseErr)
		}
		stores = append(stores, vendorID)
	}

	return rider.RestoreRider(rider.RestoreParams{
		ID:              riderID,
		Name:            name,
		IsActive:        true,
		Verification:    rider.VerificationVerified,
		IsAvailable:     true,
		Vehicle:         v,
		ConnectedStores: stores,
		CurrentLocation: location,
		Stats:           stats,
	})
}
