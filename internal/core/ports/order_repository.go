package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

type OrderRepository interface {
	// Add persists a new order. Pricing is recomputed before the write.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes guarded by the aggregate version. A lost race
	// returns errs.ErrVersionIsInvalid.
	Update(ctx context.Context, aggregate *order.Order) error

	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindConfirmedWithoutRider lists confirmed orders waiting for a rider, oldest first.
	FindConfirmedWithoutRider(ctx context.Context, limit int) ([]*order.Order, error)
}

// OrderNumberSequence hands out the per-year order counter.
type OrderNumberSequence interface {
	Next(ctx context.Context, year int) (int64, error)
}
