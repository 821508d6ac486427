package ports

import (
	"context"
)

type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork spans one database transaction. Repositories obtained after
// Begin share it.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	Commit(ctx context.Context) error

	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository

	DeliveryRepository() DeliveryRepository

	RiderRepository() RiderRepository

	PickerRepository() PickerRepository

	StoreRepository() StoreRepository

	OrderNumberSequence() OrderNumberSequence
}
