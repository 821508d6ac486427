package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/core/domain/model/store"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func point(t *testing.T, lat, lng float64) *kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return &p
}

type riderOpts struct {
	location  *kernel.GeoPoint
	vehicle   rider.VehicleType
	stats     rider.Stats
	stores    []kernel.UUID
	available bool
	verified  bool
}

func newRider(t *testing.T, o riderOpts) *rider.Rider {
	t.Helper()
	if o.vehicle == "" {
		o.vehicle = rider.Motorcycle
	}
	verification := rider.VerificationPending
	if o.verified {
		verification = rider.VerificationVerified
	}
	r, err := rider.RestoreRider(rider.RestoreParams{
		ID:              kernel.NewUUID(),
		Name:            "rider",
		IsActive:        true,
		Verification:    verification,
		IsAvailable:     o.available,
		Vehicle:         o.vehicle,
		ConnectedStores: o.stores,
		CurrentLocation: o.location,
		Stats:           o.stats,
	})
	require.NoError(t, err)
	return r
}

func newStore(t *testing.T, location *kernel.GeoPoint) *store.Store {
	t.Helper()
	s, err := store.NewStore(kernel.NewUUID(), "Corner Mart", kernel.Address{Street: "1 Market Rd", City: "Lagos", Coordinates: location})
	require.NoError(t, err)
	return s
}

func confirmedOrder(t *testing.T, vendorID kernel.UUID, dropoff *kernel.GeoPoint, fee kernel.Money) *order.Order {
	t.Helper()
	item, err := order.NewItem("sku-1", "Yam", 1500, 2)
	require.NoError(t, err)
	pricing, err := order.NewPricing(fee, 0, 0)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-2026-000010", kernel.NewUUID(), vendorID,
		kernel.Address{Street: "12 Allen Ave", City: "Lagos", Coordinates: dropoff},
		[]order.Item{item}, pricing, now)
	require.NoError(t, err)
	require.NoError(t, o.Confirm(now))
	return o
}
