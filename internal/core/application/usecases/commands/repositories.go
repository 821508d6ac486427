package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	RiderRepoFactory interface {
		RiderRepository() ports.RiderRepository
	}

	PickerRepoFactory interface {
		PickerRepository() ports.PickerRepository
	}

	StoreRepoFactory interface {
		StoreRepository() ports.StoreRepository
	}

	OrderNumberSequenceFactory interface {
		OrderNumberSequence() ports.OrderNumberSequence
	}

	// PickerUoW covers picker store links and shifts.
	PickerUoW interface {
		TxManager
		PickerRepoFactory
	}

	PickerUoWFactory interface {
		Create() PickerUoW
	}

	// UoW spans every aggregate a fulfillment command may touch.
	UoW interface {
		TxManager
		OrderRepoFactory
		DeliveryRepoFactory
		RiderRepoFactory
		PickerRepoFactory
		StoreRepoFactory
		OrderNumberSequenceFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
