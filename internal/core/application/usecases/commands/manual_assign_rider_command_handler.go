package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/services"
)

type ManualAssignRiderCommandHandler struct {
	uowFactory UoWFactory
	notifier   EventNotifier
	scorer     services.RiderScorer
	dispatcher services.DeliveryDispatcher
}

func NewManualAssignRiderCommandHandler(uowFactory UoWFactory, notifier EventNotifier) ManualAssignRiderCommandHandler {
	return ManualAssignRiderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		scorer:     services.NewRiderScorer(),
		dispatcher: services.NewDeliveryDispatcher(),
	}
}

func (h *ManualAssignRiderCommandHandler) Handle(ctx context.Context, cmd ManualAssignRiderCommand) (AssignmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignmentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignmentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return AssignmentResult{}, err
	}
	if err = cmd.Requester().CanManageVendor(o.VendorID()); err != nil {
		return AssignmentResult{}, err
	}

	s, err := uow.StoreRepository().Get(ctx, o.VendorID())
	if err != nil {
		return AssignmentResult{}, err
	}
	r, err := uow.RiderRepository().Get(ctx, cmd.RiderID())
	if err != nil {
		return AssignmentResult{}, err
	}

	storeLocation, err := s.Location()
	if err != nil {
		return AssignmentResult{}, err
	}
	scored, err := h.scorer.Score(r, o.VendorID(), storeLocation)
	if err != nil {
		return AssignmentResult{}, err
	}

	dlv, err := h.dispatcher.Dispatch(o, s, r, cmd.Requester().Actor(), true, time.Now().UTC())
	if err != nil {
		return AssignmentResult{}, err
	}

	if err = uow.DeliveryRepository().Add(ctx, dlv); err != nil {
		return AssignmentResult{}, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return AssignmentResult{}, err
	}
	if err = uow.RiderRepository().Update(ctx, r); err != nil {
		return AssignmentResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignmentResult{}, err
	}

	riderID := r.ID()
	h.notifier.Notify(ctx, collectEvents(dlv, o), deliveryAudience(o, &riderID))

	return AssignmentResult{Delivery: dlv, Order: o, Rider: candidateFrom(scored)}, nil
}
