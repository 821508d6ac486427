package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
)

type PickupDeliveryCommandHandler struct {
	uowFactory UoWFactory
	notifier   EventNotifier
}

func NewPickupDeliveryCommandHandler(uowFactory UoWFactory, notifier EventNotifier) PickupDeliveryCommandHandler {
	return PickupDeliveryCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

func (h *PickupDeliveryCommandHandler) Handle(ctx context.Context, cmd PickupDeliveryCommand) (*delivery.Delivery, error) {
	return runRiderDeliveryStep(ctx, h.uowFactory, h.notifier, cmd.riderDeliveryCommand, false,
		func(s *riderDeliveryScope) error {
			if err := s.delivery.PickUp(cmd.Requester().ID(), cmd.Photos(), cmd.Location(), s.now); err != nil {
				return err
			}
			return s.order.MarkPickedUp(s.now)
		})
}
