package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/picker"
)

type RequestStoreCommandHandler struct {
	uowFactory PickerUoWFactory
	notifier   EventNotifier
}

func NewRequestStoreCommandHandler(uowFactory PickerUoWFactory, notifier EventNotifier) RequestStoreCommandHandler {
	return RequestStoreCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

func (h *RequestStoreCommandHandler) Handle(ctx context.Context, cmd RequestStoreCommand) (*picker.Picker, error) {
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

	repo := uow.PickerRepository()
	p, err := repo.Get(ctx, cmd.Requester().ID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err = p.RequestStore(cmd.VendorID(), cmd.Role(), cmd.Sections(), now); err != nil {
		return nil, err
	}
	if err = repo.Update(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.Notify(ctx, pickerLinkEvent(p, cmd.VendorID(), "picker:store_requested", now), Audience{Vendors: vendorsOf(cmd.VendorID())})
	return p, nil
}
