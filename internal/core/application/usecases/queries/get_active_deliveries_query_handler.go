package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetActiveDeliveriesQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveDeliveriesQueryHandler(db *gorm.DB) GetActiveDeliveriesQueryHandler {
	return GetActiveDeliveriesQueryHandler{db: db}
}

// Handle returns the rider's assigned, accepted, picked up and in-transit legs,
// oldest assignment first.
func (h GetActiveDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetActiveDeliveriesQuery,
) ([]ActiveDelivery, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statuses := make([]string, 0, len(delivery.ActiveStatuses))
	for _, s := range delivery.ActiveStatuses {
		statuses = append(statuses, s.String())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			d.id,
			d.order_id,
			o.order_number,
			d.status,
			d.pickup_street, d.pickup_city, d.pickup_state, d.pickup_postal_code, d.pickup_lat, d.pickup_lng,
			d.dropoff_street, d.dropoff_city, d.dropoff_state, d.dropoff_postal_code, d.dropoff_lat, d.dropoff_lng,
			d.pricing_rider_earnings,
			d.pricing_distance_km,
			d.assigned_at,
			o.estimated_pickup_at,
			o.estimated_deliver_at
		FROM deliveries d
		JOIN orders o ON o.id = d.order_id
		WHERE d.rider_id = ? AND d.status IN ?
		ORDER BY d.assigned_at, d.id
	`, query.RiderID().Bytes(), statuses).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]ActiveDelivery, 0)
	for rows.Next() {
		var (
			id, orderID      uuid.UUID
			pickup, dropoff  addressRow
			earnings         int64
			item             ActiveDelivery
			pickupETA, dlETA *time.Time
		)
		if err = rows.Scan(
			&id,
			&orderID,
			&item.OrderNumber,
			&item.Status,
			&pickup.Street, &pickup.City, &pickup.State, &pickup.PostalCode, &pickup.Lat, &pickup.Lng,
			&dropoff.Street, &dropoff.City, &dropoff.State, &dropoff.PostalCode, &dropoff.Lat, &dropoff.Lng,
			&earnings,
			&item.DistanceKm,
			&item.AssignedAt,
			&pickupETA,
			&dlETA,
		); err != nil {
			return nil, err
		}

		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if item.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if item.Pickup, err = pickup.toAddress(); err != nil {
			return nil, err
		}
		if item.Dropoff, err = dropoff.toAddress(); err != nil {
			return nil, err
		}
		item.RiderEarnings = kernel.Money(earnings)
		item.EstimatedPickupTime = pickupETA
		item.EstimatedDeliveryTime = dlETA

		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// addressRow is an address scanned from prefixed columns.
type addressRow struct {
	Street, City, State, PostalCode string
	Lat, Lng                        *float64
}

func (a addressRow) toAddress() (kernel.Address, error) {
	coords, err := kernel.NewOptionalGeoPoint(a.Lat, a.Lng)
	if err != nil {
		return kernel.Address{}, err
	}
	return kernel.Address{
		Street:      a.Street,
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
		Coordinates: coords,
	}, nil
}
