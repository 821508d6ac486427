package commands

import (
	"fulfillment/internal/core/domain/model/kernel"
)

// InTransitDeliveryCommand is the rider on the way to the customer.
type InTransitDeliveryCommand struct {
	riderDeliveryCommand
}

func NewInTransitDeliveryCommand(deliveryID kernel.UUID, location *kernel.GeoPoint, requester Requester) (InTransitDeliveryCommand, error) {
	base, err := newRiderDeliveryCommand(deliveryID, location, requester)
	if err != nil {
		return InTransitDeliveryCommand{}, err
	}
	return InTransitDeliveryCommand{riderDeliveryCommand: base}, nil
}
