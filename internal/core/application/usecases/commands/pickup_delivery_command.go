package commands

import (
	"fulfillment/internal/core/domain/model/kernel"
)

// PickupDeliveryCommand is the rider collecting the goods at the store.
type PickupDeliveryCommand struct {
	riderDeliveryCommand
	photos []string
}

func NewPickupDeliveryCommand(
	deliveryID kernel.UUID,
	photos []string,
	location *kernel.GeoPoint,
	requester Requester,
) (PickupDeliveryCommand, error) {
	base, err := newRiderDeliveryCommand(deliveryID, location, requester)
	if err != nil {
		return PickupDeliveryCommand{}, err
	}
	return PickupDeliveryCommand{riderDeliveryCommand: base, photos: append([]string(nil), photos...)}, nil
}

func (c PickupDeliveryCommand) Photos() []string {
	return append([]string(nil), c.photos...)
}
