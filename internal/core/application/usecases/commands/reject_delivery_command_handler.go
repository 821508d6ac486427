package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
)

// RejectDeliveryCommandHandler frees the rider's slot and returns the order to
// confirmed so it can be matched again.
type RejectDeliveryCommandHandler struct {
	uowFactory UoWFactory
	notifier   EventNotifier
}

func NewRejectDeliveryCommandHandler(uowFactory UoWFactory, notifier EventNotifier) RejectDeliveryCommandHandler {
	return RejectDeliveryCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

func (h *RejectDeliveryCommandHandler) Handle(ctx context.Context, cmd RejectDeliveryCommand) (*delivery.Delivery, error) {
	return runRiderDeliveryStep(ctx, h.uowFactory, h.notifier, cmd.riderDeliveryCommand, true,
		func(s *riderDeliveryScope) error {
			if err := s.delivery.Reject(cmd.Requester().ID(), cmd.Reason(), s.now); err != nil {
				return err
			}
			if err := s.order.RiderRejected(s.now); err != nil {
				return err
			}
			s.rider.ReleaseDelivery()
			return nil
		})
}
