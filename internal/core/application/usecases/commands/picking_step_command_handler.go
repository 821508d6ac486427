package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// PickingStepCommandHandler advances picking. Finishing books the run on the
// picker's stats in the same transaction.
type PickingStepCommandHandler struct {
	uowFactory UoWFactory
	notifier   EventNotifier
}

func NewPickingStepCommandHandler(uowFactory UoWFactory, notifier EventNotifier) PickingStepCommandHandler {
	return PickingStepCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

func (h *PickingStepCommandHandler) Handle(ctx context.Context, cmd PickingStepCommand) (*order.Order, error) {
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

	pickerID := cmd.Requester().ID()
	now := time.Now().UTC()
	switch cmd.Step() {
	case StartPicking:
		err = o.StartPicking(pickerID, now)
	case FinishPicking:
		err = h.finish(ctx, uow, o, pickerID, now)
	case PackOrder:
		err = o.Pack(pickerID, now)
	}
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	audience := deliveryAudience(o, &pickerID, o.Rider())
	h.notifier.Notify(ctx, o.PullEvents(), audience)
	return o, nil
}

func (h *PickingStepCommandHandler) finish(ctx context.Context, uow UoW, o *order.Order, pickerID kernel.UUID, now time.Time) error {
	if err := o.FinishPicking(pickerID, now); err != nil {
		return err
	}
	p, err := uow.PickerRepository().Get(ctx, pickerID)
	if err != nil {
		return err
	}
	p.RecordPickedOrder(o.Picking().CountPicked())
	return uow.PickerRepository().Update(ctx, p)
}
