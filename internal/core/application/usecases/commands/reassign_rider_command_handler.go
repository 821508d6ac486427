package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/core/domain/services"
)

// ReassignRiderCommandHandler releases the current rider's slot and hands the
// delivery to the new rider.
type ReassignRiderCommandHandler struct {
	uowFactory UoWFactory
	notifier   EventNotifier
	dispatcher services.DeliveryDispatcher
}

func NewReassignRiderCommandHandler(uowFactory UoWFactory, notifier EventNotifier) ReassignRiderCommandHandler {
	return ReassignRiderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		dispatcher: services.NewDeliveryDispatcher(),
	}
}

func (h *ReassignRiderCommandHandler) Handle(ctx context.Context, cmd ReassignRiderCommand) (*delivery.Delivery, error) {
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

	dlv, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return nil, err
	}
	if err = cmd.Requester().CanManageVendor(dlv.VendorID()); err != nil {
		return nil, err
	}

	o, err := uow.OrderRepository().Get(ctx, dlv.OrderID())
	if err != nil {
		return nil, err
	}

	riderRepo := uow.RiderRepository()
	var oldRider *rider.Rider
	if id := dlv.RiderID(); id != nil {
		if oldRider, err = riderRepo.Get(ctx, *id); err != nil {
			return nil, err
		}
	}
	newRider, err := riderRepo.Get(ctx, cmd.NewRiderID())
	if err != nil {
		return nil, err
	}

	if err = h.dispatcher.Reassign(dlv, o, oldRider, newRider, cmd.Reason(), cmd.Requester().Actor(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = uow.DeliveryRepository().Update(ctx, dlv); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}
	if err = riderRepo.Update(ctx, newRider); err != nil {
		return nil, err
	}
	if oldRider != nil {
		if err = riderRepo.Update(ctx, oldRider); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	newRiderID := newRider.ID()
	audience := deliveryAudience(o, &newRiderID)
	if oldRider != nil {
		oldRiderID := oldRider.ID()
		audience.Users = append(audience.Users, &oldRiderID)
	}
	h.notifier.Notify(ctx, collectEvents(dlv, o), audience)

	return dlv, nil
}
