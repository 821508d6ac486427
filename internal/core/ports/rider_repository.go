package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/rider"
)

type RiderRepository interface {
	Add(ctx context.Context, aggregate *rider.Rider) error

	Update(ctx context.Context, aggregate *rider.Rider) error

	Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error)

	// GetAllAvailable returns active, verified, available riders in a stable order.
	// An empty vehicle matches every vehicle.
	GetAllAvailable(ctx context.Context, vehicle rider.VehicleType) ([]*rider.Rider, error)
}
