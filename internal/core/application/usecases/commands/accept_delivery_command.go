package commands

import (
	"fulfillment/internal/core/domain/model/kernel"
)

// AcceptDeliveryCommand is the assigned rider taking the job.
type AcceptDeliveryCommand struct {
	riderDeliveryCommand
}

func NewAcceptDeliveryCommand(deliveryID kernel.UUID, location *kernel.GeoPoint, requester Requester) (AcceptDeliveryCommand, error) {
	base, err := newRiderDeliveryCommand(deliveryID, location, requester)
	if err != nil {
		return AcceptDeliveryCommand{}, err
	}
	return AcceptDeliveryCommand{riderDeliveryCommand: base}, nil
}
