package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// CreateOrderCommandHandler allocates the next order number for the year and
// persists a pending order for an existing vendor store.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	notifier   EventNotifier
}

func NewCreateOrderCommandHandler(uowFactory UoWFactory, notifier EventNotifier) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.StoreRepository().Get(ctx, cmd.VendorID()); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	seq, err := uow.OrderNumberSequence().Next(ctx, now.Year())
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.FormatOrderNumber(now.Year(), seq),
		cmd.CustomerID(),
		cmd.VendorID(),
		cmd.Address(),
		cmd.Items(),
		cmd.Pricing(),
		now,
	)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.Notify(ctx, o.PullEvents(), deliveryAudience(o))
	return o, nil
}
