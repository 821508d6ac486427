package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
)

type InTransitDeliveryCommandHandler struct {
	uowFactory UoWFactory
	notifier   EventNotifier
}

func NewInTransitDeliveryCommandHandler(uowFactory UoWFactory, notifier EventNotifier) InTransitDeliveryCommandHandler {
	return InTransitDeliveryCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

func (h *InTransitDeliveryCommandHandler) Handle(ctx context.Context, cmd InTransitDeliveryCommand) (*delivery.Delivery, error) {
	return runRiderDeliveryStep(ctx, h.uowFactory, h.notifier, cmd.riderDeliveryCommand, false,
		func(s *riderDeliveryScope) error {
			if err := s.delivery.MarkInTransit(cmd.Requester().ID(), cmd.Location(), s.now); err != nil {
				return err
			}
			return s.order.MarkInTransit(s.now)
		})
}
