package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
)

type AcceptDeliveryCommandHandler struct {
	uowFactory UoWFactory
	notifier   EventNotifier
}

func NewAcceptDeliveryCommandHandler(uowFactory UoWFactory, notifier EventNotifier) AcceptDeliveryCommandHandler {
	return AcceptDeliveryCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

func (h *AcceptDeliveryCommandHandler) Handle(ctx context.Context, cmd AcceptDeliveryCommand) (*delivery.Delivery, error) {
	return runRiderDeliveryStep(ctx, h.uowFactory, h.notifier, cmd.riderDeliveryCommand, false,
		func(s *riderDeliveryScope) error {
			if err := s.delivery.Accept(cmd.Requester().ID(), cmd.Location(), s.now); err != nil {
				return err
			}
			return s.order.RiderAccepted(s.now)
		})
}
