package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

type UpdatePickedItemCommandHandler struct {
	uowFactory UoWFactory
}

func NewUpdatePickedItemCommandHandler(uowFactory UoWFactory) UpdatePickedItemCommandHandler {
	return UpdatePickedItemCommandHandler{uowFactory: uowFactory}
}

func (h *UpdatePickedItemCommandHandler) Handle(ctx context.Context, cmd UpdatePickedItemCommand) (*order.Order, error) {
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

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = o.UpdatePickedItem(cmd.Requester().ID(), cmd.ProductID(), cmd.Update(), time.Now().UTC()); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
