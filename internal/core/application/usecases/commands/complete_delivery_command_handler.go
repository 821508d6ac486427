package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
)

// CompleteDeliveryCommandHandler closes the leg, marks the order delivered and
// books the rider's earnings.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
	notifier   EventNotifier
}

func NewCompleteDeliveryCommandHandler(uowFactory UoWFactory, notifier EventNotifier) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

func (h *CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) (*delivery.Delivery, error) {
	return runRiderDeliveryStep(ctx, h.uowFactory, h.notifier, cmd.riderDeliveryCommand, true,
		func(s *riderDeliveryScope) error {
			if err := s.delivery.Complete(cmd.Requester().ID(), cmd.Proof(), s.now); err != nil {
				return err
			}
			if err := s.order.MarkDelivered(s.now); err != nil {
				return err
			}
			return s.rider.CompleteDelivery(s.delivery.Pricing().RiderEarnings())
		})
}
