package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/picker"
)

type ChangePickerShiftCommandHandler struct {
	uowFactory PickerUoWFactory
}

func NewChangePickerShiftCommandHandler(uowFactory PickerUoWFactory) ChangePickerShiftCommandHandler {
	return ChangePickerShiftCommandHandler{uowFactory: uowFactory}
}

// Handle checks the picker in, or out when the picker is currently at the store.
// Checking out of a different store is a no-op.
func (h *ChangePickerShiftCommandHandler) Handle(ctx context.Context, cmd ChangePickerShiftCommand) (*picker.Picker, error) {
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

	if cmd.CheckIn() {
		if err = p.CheckIn(cmd.VendorID()); err != nil {
			return nil, err
		}
	} else {
		current := p.CurrentStore()
		if current == nil || !current.IsEqual(cmd.VendorID()) {
			return p, nil
		}
		p.CheckOut()
	}

	if err = repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}
