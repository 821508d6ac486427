package commands

import (
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
)

// CompleteDeliveryCommand is the rider handing the goods over with proof.
type CompleteDeliveryCommand struct {
	riderDeliveryCommand
	proof delivery.Proof
}

// NewCompleteDeliveryCommand fails without at least one proof photo.
func NewCompleteDeliveryCommand(
	deliveryID kernel.UUID,
	photos []string,
	signature, recipientName, notes string,
	location *kernel.GeoPoint,
	requester Requester,
) (CompleteDeliveryCommand, error) {
	proof, err := delivery.NewProof(photos, signature, recipientName, notes, location)
	if err != nil {
		return CompleteDeliveryCommand{}, err
	}
	base, err := newRiderDeliveryCommand(deliveryID, location, requester)
	if err != nil {
		return CompleteDeliveryCommand{}, err
	}
	return CompleteDeliveryCommand{riderDeliveryCommand: base, proof: proof}, nil
}

func (c CompleteDeliveryCommand) Proof() delivery.Proof {
	return c.proof
}
