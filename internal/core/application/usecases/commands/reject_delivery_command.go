package commands

import (
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
)

// RejectDeliveryCommand is the assigned rider turning the job down, with an
// optional reason.
type RejectDeliveryCommand struct {
	riderDeliveryCommand
	reason string
}

func NewRejectDeliveryCommand(deliveryID kernel.UUID, reason string, requester Requester) (RejectDeliveryCommand, error) {
	base, err := newRiderDeliveryCommand(deliveryID, nil, requester)
	if err != nil {
		return RejectDeliveryCommand{}, err
	}
	return RejectDeliveryCommand{riderDeliveryCommand: base, reason: strings.TrimSpace(reason)}, nil
}

func (c RejectDeliveryCommand) Reason() string {
	return c.reason
}
