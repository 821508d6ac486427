package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
)

type DeliveryRepository interface {
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	Update(ctx context.Context, aggregate *delivery.Delivery) error

	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// FindActiveByOrder returns the delivery still occupying a rider for the order, if any.
	FindActiveByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)
}
