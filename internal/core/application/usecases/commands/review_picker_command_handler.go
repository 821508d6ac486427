package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/picker"
)

type ReviewPickerCommandHandler struct {
	uowFactory PickerUoWFactory
	notifier   EventNotifier
}

func NewReviewPickerCommandHandler(uowFactory PickerUoWFactory, notifier EventNotifier) ReviewPickerCommandHandler {
	return ReviewPickerCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

func (h *ReviewPickerCommandHandler) Handle(ctx context.Context, cmd ReviewPickerCommand) (*picker.Picker, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := cmd.Requester().CanManageVendor(cmd.VendorID()); err != nil {
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
	p, err := repo.Get(ctx, cmd.PickerID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err = p.Review(cmd.VendorID(), cmd.Decision(), cmd.Notes(), now); err != nil {
		return nil, err
	}
	if err = repo.Update(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	pickerID := p.ID()
	h.notifier.Notify(ctx, pickerLinkEvent(p, cmd.VendorID(), "picker:store_reviewed", now), Audience{
		Users:   []*kernel.UUID{&pickerID},
		Vendors: vendorsOf(cmd.VendorID()),
	})
	return p, nil
}

// pickerLinkEvent describes the current state of a picker's link to a store.
func pickerLinkEvent(p *picker.Picker, vendorID kernel.UUID, name string, now time.Time) []kernel.DomainEvent {
	payload := map[string]any{"pickerId": p.ID().String(), "vendorId": vendorID.String()}
	if link, ok := p.Store(vendorID); ok {
		payload["status"] = string(link.Status)
		payload["role"] = string(link.Role)
	}
	return []kernel.DomainEvent{{Name: name, AggregateID: p.ID(), OccurredAt: now, Payload: payload}}
}

func vendorsOf(ids ...kernel.UUID) []kernel.UUID {
	return ids
}
