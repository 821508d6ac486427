package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/store"
)

// StoreRepository reads vendor stores. Stores are owned by the catalog service;
// Add exists for seeding.
type StoreRepository interface {
	Add(ctx context.Context, aggregate *store.Store) error

	Get(ctx context.Context, vendorID kernel.UUID) (*store.Store, error)
}
