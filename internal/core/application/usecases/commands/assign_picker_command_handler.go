package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

type AssignPickerCommandHandler struct {
	uowFactory UoWFactory
	notifier   EventNotifier
}

func NewAssignPickerCommandHandler(uowFactory UoWFactory, notifier EventNotifier) AssignPickerCommandHandler {
	return AssignPickerCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

func (h *AssignPickerCommandHandler) Handle(ctx context.Context, cmd AssignPickerCommand) (*order.Order, error) {
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
	if err = cmd.Requester().CanManageVendor(o.VendorID()); err != nil {
		return nil, err
	}

	p, err := uow.PickerRepository().Get(ctx, cmd.PickerID())
	if err != nil {
		return nil, err
	}
	if err = p.ValidateCanPickFor(o.VendorID()); err != nil {
		return nil, err
	}

	if err = o.AssignPicker(p.ID(), time.Now().UTC()); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	pickerID := p.ID()
	h.notifier.Notify(ctx, o.PullEvents(), Audience{
		Users:   []*kernel.UUID{&pickerID},
		Vendors: vendorsOf(o.VendorID()),
	})
	return o, nil
}
