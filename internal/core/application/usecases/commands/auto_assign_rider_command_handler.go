package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/services"
)

// AutoAssignRiderCommandHandler ranks eligible riders for the order's store and
// commits the top one. The delivery, the order and the rider are written in
// one transaction; events go out after commit.
type AutoAssignRiderCommandHandler struct {
	uowFactory UoWFactory
	notifier   EventNotifier
	scorer     services.RiderScorer
	dispatcher services.DeliveryDispatcher
}

func NewAutoAssignRiderCommandHandler(uowFactory UoWFactory, notifier EventNotifier) AutoAssignRiderCommandHandler {
	return AutoAssignRiderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		scorer:     services.NewRiderScorer(),
		dispatcher: services.NewDeliveryDispatcher(),
	}
}

func (h *AutoAssignRiderCommandHandler) Handle(ctx context.Context, cmd AutoAssignRiderCommand) (AssignmentResult, error) {
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
	if err = o.ValidateRiderAssignment(false); err != nil {
		return AssignmentResult{}, err
	}

	s, err := uow.StoreRepository().Get(ctx, o.VendorID())
	if err != nil {
		return AssignmentResult{}, err
	}
	storeLocation, err := s.Location()
	if err != nil {
		return AssignmentResult{}, err
	}

	riders, err := uow.RiderRepository().GetAllAvailable(ctx, cmd.Vehicle())
	if err != nil {
		return AssignmentResult{}, err
	}
	candidates, err := h.scorer.Candidates(riders, o.VendorID(), storeLocation, cmd.Vehicle())
	if err != nil {
		return AssignmentResult{}, err
	}

	best := candidates[0]
	dlv, err := h.dispatcher.Dispatch(o, s, best.Rider, cmd.Requester().Actor(), false, time.Now().UTC())
	if err != nil {
		return AssignmentResult{}, err
	}

	if err = uow.DeliveryRepository().Add(ctx, dlv); err != nil {
		return AssignmentResult{}, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return AssignmentResult{}, err
	}
	if err = uow.RiderRepository().Update(ctx, best.Rider); err != nil {
		return AssignmentResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignmentResult{}, err
	}

	riderID := best.Rider.ID()
	h.notifier.Notify(ctx, collectEvents(dlv, o), deliveryAudience(o, &riderID))

	result := AssignmentResult{
		Delivery:   dlv,
		Order:      o,
		Rider:      candidateFrom(best),
		Candidates: make([]RiderCandidate, 0, len(candidates)),
	}
	for _, c := range candidates {
		result.Candidates = append(result.Candidates, candidateFrom(c))
	}
	return result, nil
}
